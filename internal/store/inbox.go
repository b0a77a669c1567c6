package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

// InboxFile is the SQLite database name inside the data dir.
const InboxFile = "inbox.sqlite"

// Status of a recorded submission.
type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusSent:
		return StatusSent, nil
	case StatusFailed:
		return StatusFailed, nil
	}
	return "", fmt.Errorf("unknown submission status %q (want pending|sent|failed)", s)
}

// Submission is one contact message as seen by the inbox.
type Submission struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Email     string    `json:"email" yaml:"email"`
	Message   string    `json:"message" yaml:"message"`
	Status    Status    `json:"status" yaml:"status"`
	Error     string    `json:"error,omitempty" yaml:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updated_at"`
}

var ErrNotFound = errors.New("submission not found")

// Inbox persists contact submissions in <dir>/inbox.sqlite.
type Inbox struct {
	db  *sql.DB
	now func() time.Time
}

// OpenInbox opens (creating if needed) the inbox database in dir.
func OpenInbox(ctx context.Context, dir string) (*Inbox, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("inbox: empty data dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("inbox: creating %s: %w", dir, err)
	}
	path := filepath.Join(dir, InboxFile)

	// Pragmas go in the DSN so every pooled connection gets them.
	// WAL enables one writer + many readers; busy_timeout helps avoid "database is locked" flakiness.
	q := url.Values{}
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "synchronous(NORMAL)")
	q.Add("_pragma", "busy_timeout(5000)")
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", "file:"+path+"?"+q.Encode())
	if err != nil {
		return nil, err
	}
	in := &Inbox{db: db, now: time.Now}
	if err := in.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return in, nil
}

func (in *Inbox) Close() error { return in.db.Close() }

func (in *Inbox) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS submissions (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			message TEXT NOT NULL,
			status TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			created_at_unixms INTEGER NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_created ON submissions(created_at_unixms);`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions(status);`,
	}
	for _, s := range stmts {
		if _, err := in.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("inbox: migrate: %w", err)
		}
	}
	return nil
}

// Record stores a new pending submission and returns it with its id.
func (in *Inbox) Record(ctx context.Context, name, email, message string) (Submission, error) {
	now := in.now().UTC().Truncate(time.Millisecond)
	sub := Submission{
		ID:        "msg-" + uuid.NewString(),
		Name:      name,
		Email:     email,
		Message:   message,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := in.db.ExecContext(ctx, `INSERT INTO submissions(id, name, email, message, status, error, created_at_unixms, updated_at_unixms)
		VALUES(?, ?, ?, ?, ?, '', ?, ?)`,
		sub.ID, sub.Name, sub.Email, sub.Message, string(sub.Status), now.UnixMilli(), now.UnixMilli())
	if err != nil {
		return Submission{}, fmt.Errorf("inbox: record: %w", err)
	}
	return sub, nil
}

// Mark sets the final status of a submission. cause is stored for failures.
func (in *Inbox) Mark(ctx context.Context, id string, status Status, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	res, err := in.db.ExecContext(ctx, `UPDATE submissions SET status = ?, error = ?, updated_at_unixms = ? WHERE id = ?`,
		string(status), msg, in.now().UTC().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("inbox: mark %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (in *Inbox) Get(ctx context.Context, id string) (Submission, error) {
	row := in.db.QueryRowContext(ctx, `SELECT id, name, email, message, status, error, created_at_unixms, updated_at_unixms
		FROM submissions WHERE id = ?`, id)
	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Submission{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sub, err
}

// Filter narrows List. Zero values mean "no constraint"; Limit <= 0 means all.
type Filter struct {
	Status Status
	Limit  int
}

// List returns submissions newest first.
func (in *Inbox) List(ctx context.Context, f Filter) ([]Submission, error) {
	q := `SELECT id, name, email, message, status, error, created_at_unixms, updated_at_unixms FROM submissions`
	var args []any
	if f.Status != "" {
		q += ` WHERE status = ?`
		args = append(args, string(f.Status))
	}
	q += ` ORDER BY created_at_unixms DESC, rowid DESC`
	if f.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := in.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("inbox: list: %w", err)
	}
	defer rows.Close()

	out := []Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(r rowScanner) (Submission, error) {
	var (
		sub              Submission
		status           string
		created, updated int64
	)
	if err := r.Scan(&sub.ID, &sub.Name, &sub.Email, &sub.Message, &status, &sub.Error, &created, &updated); err != nil {
		return Submission{}, err
	}
	sub.Status = Status(status)
	sub.CreatedAt = time.UnixMilli(created).UTC()
	sub.UpdatedAt = time.UnixMilli(updated).UTC()
	return sub, nil
}
