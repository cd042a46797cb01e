package lib

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slugRequest struct {
	Slug  string   `validate:"required,route_slug"`
	Stops []string `validate:"max=2"`
}

func TestValidateStruct(t *testing.T) {
	RegisterStringRule("route_slug", func(s string) bool {
		return s == strings.ToLower(s) && !strings.Contains(s, " ")
	})

	require.NoError(t, ValidateStruct(slugRequest{Slug: "kastelenroute"}))

	err := ValidateStruct(slugRequest{Slug: "Bier Route", Stops: []string{"a", "b", "c"}})

	var ve ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []FieldError{
		{Field: "slugRequest.Slug", Rule: "route_slug"},
		{Field: "slugRequest.Stops", Rule: "max", Param: "2"},
	}, ve.Fields)
	assert.Equal(t, "slugRequest.Slug route_slug; slugRequest.Stops max=2", err.Error())
}

func TestValidateStruct_NotAStruct(t *testing.T) {
	err := ValidateStruct("not a struct")
	require.Error(t, err)

	var ve ValidationErrors
	assert.False(t, errors.As(err, &ve))
}
