package cli

import (
	"errors"
	"strings"

	"portfolio/internal/contact"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

func newContactCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Contact form",
	}
	cmd.AddCommand(newContactSendCmd(app))
	return cmd
}

func newContactSendCmd(app *App) *cobra.Command {
	var values contact.Values
	var noInput bool

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a message through the contact form",
		Example: strings.TrimSpace(`
# Prompt for anything not given as a flag
portfolio contact send --name "Ada Lovelace"

# Non-interactive
portfolio contact send --no-input --name Ada --email ada@example.com --message "Hello"
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			log, err := app.logger(cfg)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer func() { _ = log.Sync() }()

			if err := promptMissing(&values, noInput); err != nil {
				return writeErr(cmd, err)
			}

			ctx := cmd.Context()
			sender, inbox, err := recordingSender(ctx, cfg, log)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer inbox.Close()

			form := contact.NewForm(sender, contactOptions(cfg, log))
			defer form.Close()
			for _, f := range contact.AllFields {
				if err := form.SetField(f, values.Get(f)); err != nil {
					return writeErr(cmd, err)
				}
			}

			res, err := form.Submit(ctx)
			if err != nil {
				// The cause is in the log; users get the generic notice.
				return writeErr(cmd, errors.New(contact.NoticeFailure))
			}
			if res.Outcome == contact.OutcomeInvalid {
				return writeErr(cmd, res.Errors.Err())
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"status": res.Status,
					"notice": contact.NoticeSuccess,
					"email":  values.Email,
				},
			})
		},
	}

	cmd.Flags().StringVar(&values.Name, "name", "", "Your name")
	cmd.Flags().StringVar(&values.Email, "email", "", "Your email address")
	cmd.Flags().StringVar(&values.Message, "message", "", "Message text")
	cmd.Flags().BoolVar(&noInput, "no-input", false, "Never prompt; missing fields are errors")
	return cmd
}

// promptMissing asks for each empty field, validating as the user types.
func promptMissing(v *contact.Values, noInput bool) error {
	fields := []struct {
		field contact.Field
		label string
		dst   *string
	}{
		{contact.FieldName, "Name", &v.Name},
		{contact.FieldEmail, "Email", &v.Email},
		{contact.FieldMessage, "Message", &v.Message},
	}
	for _, f := range fields {
		if strings.TrimSpace(*f.dst) != "" {
			continue
		}
		if noInput {
			return missingFieldError{flag: string(f.field)}
		}
		field := f.field
		p := promptui.Prompt{
			Label: f.label,
			Validate: func(s string) error {
				if msg := contact.ValidateField(field, s); msg != "" {
					return errors.New(msg)
				}
				return nil
			},
		}
		out, err := p.Run()
		if err != nil {
			return err
		}
		*f.dst = out
	}
	return nil
}
