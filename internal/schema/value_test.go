package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		token string
		want  PrimitiveKind
	}{
		{"str", KindStr},
		{"string", KindStr},
		{"int", KindInt},
		{"bool", KindBool},
		{" int ", KindInt},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseKind(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseKind("float")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "float")
}

func TestPrimitiveKindString(t *testing.T) {
	assert.Equal(t, "str", KindStr.String())
	assert.Equal(t, "int", KindInt.String())
	assert.Equal(t, "bool", KindBool.String())
	assert.Equal(t, "PrimitiveKind(0)", KindInvalid.String())
}

func TestFieldsPreserveOrder(t *testing.T) {
	fs := Object(F("zeta", Int()), F("alpha", Str()), F("mid", Bool()))
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, fs.Names())

	v, ok := fs.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, Str(), v)

	_, ok = fs.Get("missing")
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	t.Run("valid nested", func(t *testing.T) {
		s := NewStruct("item",
			F("id", Int()),
			F("meta", Object(F("tags", ArrayOf(Str())))),
		)
		assert.NoError(t, s.Validate())
	})

	t.Run("empty struct is legal", func(t *testing.T) {
		assert.NoError(t, NewStruct("empty").Validate())
	})

	t.Run("duplicate field", func(t *testing.T) {
		s := NewStruct("item", F("id", Int()), F("id", Str()))
		err := s.Validate()
		require.Error(t, err)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "item.id", verr.Path)
	})

	t.Run("reserved character", func(t *testing.T) {
		s := NewStruct("item", F("a.b", Int()))
		err := s.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must not contain")
	})

	t.Run("empty struct name", func(t *testing.T) {
		require.Error(t, NewStruct("").Validate())
	})

	t.Run("nil value", func(t *testing.T) {
		s := NewStruct("item", F("x", nil))
		require.Error(t, s.Validate())
	})
}

func TestValidateAll_DuplicateStruct(t *testing.T) {
	err := ValidateAll([]Struct{NewStruct("a"), NewStruct("a")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate struct definition")
}
