// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/core/source"
	"github.com/Alexspector123/Netflix-Mangadex-sub000/internal/platform/apperr"
)

/*
TestParseSelector covers every accepted value and the rejection path.
*/
func TestParseSelector(t *testing.T) {
	tests := []struct {
		raw     string
		want    source.Selector
		wantErr bool
	}{
		{"", source.Both, false},
		{"db", source.Local, false},
		{"api", source.Remote, false},
		{"DB", source.Both, true},
		{"cache", source.Both, true},
	}

	for _, tt := range tests {
		t.Run("source="+tt.raw, func(t *testing.T) {
			got, err := source.ParseSelector(tt.raw)
			if tt.wantErr {
				assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelector_Branches(t *testing.T) {
	assert.True(t, source.Both.IncludesLocal())
	assert.True(t, source.Both.IncludesRemote())
	assert.False(t, source.Local.IncludesRemote())
	assert.False(t, source.Remote.IncludesLocal())
}
