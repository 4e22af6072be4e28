package validate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,max=5"`
	Year  int    `json:"year" validate:"gte=0,lte=2100"`
	Link  string `json:"url" validate:"omitempty,url"`
}

func TestStruct_MapsTagsToMessages(t *testing.T) {
	errs := Struct(sample{Email: "nope", Name: "toolong", Year: 3000, Link: "::"})

	require.Len(t, errs["email"], 1)
	assert.Equal(t, "Enter a valid email address.", errs["email"][0].Msg)
	assert.Equal(t, "Ensure this value has at most 5 characters.", errs["name"][0].Msg)
	assert.Equal(t, "Ensure this value is less than or equal to 2100.", errs["year"][0].Msg)
	assert.Equal(t, "Enter a valid URL.", errs["url"][0].Msg)
}

func TestStruct_Required(t *testing.T) {
	errs := Struct(sample{})
	assert.Equal(t, []string{CodeRequired}, errs.Codes("email"))
	assert.Equal(t, []string{CodeRequired}, errs.Codes("name"))
	assert.False(t, errs.Has("url"))
	assert.Equal(t, MsgRequired, errs["name"][0].Msg)
}

func TestStruct_Valid(t *testing.T) {
	errs := Struct(sample{Email: "a@b.co", Name: "ok", Year: 1999})
	assert.NoError(t, errs.Err())
}

func TestErrors_ErrorAndAs(t *testing.T) {
	errs := Errors{}
	errs.Add("username", CodeRequired, MsgRequired)
	errs.Add("email", CodeDuplicateEmail, "A user with that email already exists.")

	assert.Equal(t, "email: A user with that email already exists.; username: This field is required.", errs.Error())

	wrapped := fmt.Errorf("register: %w", errs.Err())
	got, ok := As(wrapped)
	require.True(t, ok)
	assert.True(t, got.Has("username"))

	_, ok = As(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestErrors_Merge(t *testing.T) {
	a := Errors{}
	a.Add("x", CodeInvalid, "one")
	b := Errors{}
	b.Add("x", CodeInvalid, "two")
	b.Add("y", CodeRequired, MsgRequired)

	a.Merge(b)
	assert.Len(t, a["x"], 2)
	assert.True(t, a.Has("y"))
}
