// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// Package driller traverses JSON documents to extract attribute values for
// filtering, sorting, and output.
package driller
