package services

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/fringe-app/fringe/internal/app/picker"
	"github.com/fringe-app/fringe/internal/pkg/apperrors"
)

func TestValidateAssetLimits(t *testing.T) {
	s := NewVideoService(nil, nil, zerolog.Nop())

	tests := []struct {
		name  string
		asset picker.Asset
		want  error
	}{
		{"within limits", picker.Asset{Size: 10 << 20, Duration: 30 * time.Second}, nil},
		{"at the caps", picker.Asset{Size: MaxVideoSize, Duration: MaxVideoDuration}, nil},
		{"too large", picker.Asset{Size: MaxVideoSize + 1, Duration: 30 * time.Second}, apperrors.ErrVideoTooLarge},
		{"too long", picker.Asset{Size: 10 << 20, Duration: MaxVideoDuration + time.Second}, apperrors.ErrVideoTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.ValidateAsset(tt.asset)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}
