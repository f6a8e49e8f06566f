package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrySchemas(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	tests := []struct {
		kind   Kind
		fields []string
	}{
		{KindBaseRegistration, []string{"email", "phone"}},
		{KindAdmin, []string{"email", "phone", "firstName", "lastName"}},
		{KindCandidate, []string{"email", "phone", "firstName", "lastName", "title"}},
		{KindEmployer, []string{"email", "phone", "company", "industry"}},
		{KindPassword, []string{"password"}},
		{KindForgotPassword, []string{"email"}},
	}

	for _, ttt := range tests {
		t.Run(string(ttt.kind), func(t *testing.T) {
			s, err := reg.Schema(ttt.kind)
			require.NoError(t, err)
			assert.Equal(t, ttt.fields, s.FieldNames())
		})
	}

	assert.Len(t, reg.Kinds(), len(tests))
}

func TestRegistryUnknownSchema(t *testing.T) {
	reg := MustRegistry()

	s, err := reg.Schema("recruiter")
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrUnknownSchema)
}

func TestRegistrationPhoneIsZA(t *testing.T) {
	reg := MustRegistry()
	s, err := reg.Schema(KindEmployer)
	require.NoError(t, err)

	phone, ok := s.Field("phone")
	require.True(t, ok)
	require.Len(t, phone.Constraints, 1)

	c := phone.Constraints[0]
	assert.Equal(t, RuleIsValidPhoneNumber, c.Name)
	assert.True(t, c.Check("0821234567", Args{}))
	assert.False(t, c.Check("+12125551234", Args{}))
}
