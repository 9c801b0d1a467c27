package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealloop/backend/internal/service"
)

func TestTranslateHexColor(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"#ffa500", "orange"},
		{"#FFA500", "orange"},
		{"#008000", "green"},
		{"#ff69b4", "hotpink"},
		{"  #800080  ", "purple"},
		{"orange", "orange"},
	}
	for _, tc := range tests {
		got, err := service.TranslateHexColor(tc.input)
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.want, got, tc.input)
	}
}

func TestTranslateHexColorUnknown(t *testing.T) {
	for _, input := range []string{"#123456", "notacolor", "", "#fff"} {
		_, err := service.TranslateHexColor(input)
		require.Error(t, err, input)
		assert.True(t, service.IsValidation(err))
		assert.EqualError(t, err, "no name exists for this color")
	}
}
