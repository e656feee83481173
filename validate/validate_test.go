package validate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCheckAmount(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "integer", in: "100", want: "100"},
		{name: "two_decimals", in: "15.50", want: "15.5"},
		{name: "zero", in: "0", wantErr: true},
		{name: "negative", in: "-3.20", wantErr: true},
		{name: "too_precise", in: "1.999", wantErr: true},
		{name: "not_a_number", in: "ten", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckAmount(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			want, err := decimal.NewFromString(tt.want)
			require.NoError(t, err)
			require.True(t, got.Equal(want), "got %s, want %s", got, want)
		})
	}
}

func TestCheckID(t *testing.T) {
	require.NoError(t, CheckID(GenerateID()))
	require.Error(t, CheckID("not-a-uuid"))
}
