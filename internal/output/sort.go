// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"sort"
	"strings"
)

// SortDataset sorts the dataset in place per the comma separated spec. Each
// key may carry a leading - for descending order and a leading ! for a
// case-sensitive comparison. Numeric values compare numerically. An empty
// spec leaves the dataset untouched.
func SortDataset(dataset []map[string]interface{}, spec string) {
	if spec == "" {
		return
	}

	keys := strings.Split(spec, ",")

	sort.SliceStable(dataset, func(i, j int) bool {
		for _, key := range keys {
			key = strings.TrimSpace(key)

			descending := strings.HasPrefix(key, "-")
			key = strings.TrimPrefix(key, "-")

			caseSensitive := strings.HasPrefix(key, "!")
			key = strings.TrimPrefix(key, "!")

			if key == "" {
				continue
			}

			a := dataset[i][key]
			b := dataset[j][key]

			// JSON numbers land as float64, so compare them that way rather
			// than lexically.
			if af, aok := a.(float64); aok {
				if bf, bok := b.(float64); bok {
					if af == bf {
						continue
					}
					if descending {
						return af > bf
					}
					return af < bf
				}
			}

			as := InterfaceToString(a)
			bs := InterfaceToString(b)
			if !caseSensitive {
				as = strings.ToLower(as)
				bs = strings.ToLower(bs)
			}

			if as == bs {
				continue
			}
			if descending {
				return as > bs
			}
			return as < bs
		}

		return false
	})
}
