package contact

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate_Scenarios(t *testing.T) {
	cases := []struct {
		name string
		in   Values
		want FieldErrors
	}{
		{"all valid", Values{Name: "A", Email: "a@b.com", Message: "hi"}, FieldErrors{}},
		{"missing name", Values{Name: "", Email: "a@b.com", Message: "hi"}, FieldErrors{FieldName: MsgNameRequired}},
		{"bad email", Values{Name: "A", Email: "not-an-email", Message: "hi"}, FieldErrors{FieldEmail: MsgEmailInvalid}},
		{"blank everything", Values{Name: "  ", Email: "\t", Message: "\n"}, FieldErrors{
			FieldName:    MsgNameRequired,
			FieldEmail:   MsgEmailRequired,
			FieldMessage: MsgMessageRequired,
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Validate(tc.in)
			require.Equal(t, len(tc.want) == 0, got.Valid)
			require.Equal(t, tc.want, got.Errors)
		})
	}
}

func TestValidate_EmailShape(t *testing.T) {
	ok := []string{"x@y.z", "a.b@c.d.e", "first+tag@sub.example.org", "ü@ñ.co"}
	for _, e := range ok {
		require.Empty(t, ValidateField(FieldEmail, e), "expected %q to pass", e)
	}

	bad := []string{
		"plainaddress",    // no @
		"user@localhost",  // no dot after @
		"@example.com",    // empty local part
		"user@.com",       // empty domain label
		"user@example.",   // empty tld
		"us er@example.com",
		"a@b@c.com",
		" a@b.com",
	}
	for _, e := range bad {
		require.Equal(t, MsgEmailInvalid, ValidateField(FieldEmail, e), "expected %q to fail", e)
	}
}

func TestParseField(t *testing.T) {
	f, err := ParseField(" Email ")
	require.NoError(t, err)
	require.Equal(t, FieldEmail, f)

	_, err = ParseField("phone")
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestFieldErrors_Err(t *testing.T) {
	require.NoError(t, FieldErrors{}.Err())

	err := FieldErrors{FieldMessage: MsgMessageRequired, FieldName: MsgNameRequired}.Err()
	require.EqualError(t, err, "name: Name is required\nmessage: Message is required")

	var ve ValidationError
	require.True(t, errors.As(err, &ve))
	require.Equal(t, FieldName, ve.Field)
}
