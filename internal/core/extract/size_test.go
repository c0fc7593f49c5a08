package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSize(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"90*90", `90*90"`, true},
		{"90X90", `90*90"`, true},
		{"SOXSO", `90*90"`, true},
		{"S0XS0", `90*90"`, true},
		{"9090", `90*90"`, true},
		{"SO X SO", `90*90"`, true},
		{`20*20"`, `20*20"`, true},
		{"50 x 60", `50*60"`, true},
		{"SOX60", `90*60"`, true},
		{"2O X 3O", `20*30"`, true},
		{"I8XZ4", `18*24"`, true},
		{"ABCXYZ", "", false},
		{"ONE", "", false},
		{"", "", false},
		{"90", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeSize(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
