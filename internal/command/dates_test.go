package command

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	now := time.Date(2025, 7, 14, 16, 45, 0, 0, time.UTC)
	today := time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		token   string
		want    time.Time
		wantErr bool
	}{
		{name: "empty means today", token: "", want: today},
		{name: "today keyword", token: "Today", want: today},
		{name: "yesterday keyword", token: "yesterday", want: today.AddDate(0, 0, -1)},
		{name: "dashed", token: "2025-07-01", want: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)},
		{name: "dotted", token: "2025.07.01", want: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)},
		{name: "slashed", token: "2025/07/01", want: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)},
		{name: "future rejected", token: "2025-07-15", wantErr: true},
		{name: "garbage rejected", token: "last tuesday", wantErr: true},
		{name: "wrong order rejected", token: "14-07-2025", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.token, now)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}
}
