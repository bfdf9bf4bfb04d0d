package request

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForce(t *testing.T) {
	tests := []struct {
		url     string
		want    bool
		wantErr bool
	}{
		{url: "/profile", want: false},
		{url: "/profile?force=true", want: true},
		{url: "/profile?force=1", want: true},
		{url: "/profile?force=false", want: false},
		{url: "/profile?force=maybe", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := Force(httptest.NewRequest("GET", tt.url, nil))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
