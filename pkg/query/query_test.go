// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alexspector123/Netflix-Mangadex-sub000/pkg/query"
)

func TestList(t *testing.T) {
	assert.Equal(t, []string{"en", "vi", "pt-br"}, query.List([]string{"en, vi", " ", "pt-br,"}))
	assert.Nil(t, query.List(nil))
}
