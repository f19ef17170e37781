// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses list-valued URL query parameters.
package query

import "strings"

// List flattens repeated and comma-separated values of one parameter
// into a trimmed slice, dropping empty entries.
func List(values []string) []string {
	var res []string
	for _, value := range values {
		for _, v := range strings.Split(value, ",") {
			if clean := strings.TrimSpace(v); clean != "" {
				res = append(res, clean)
			}
		}
	}
	return res
}
