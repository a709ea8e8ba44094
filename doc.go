// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

// condadoc builds documentation for conda environments. It parses
// environment.yml files and lockfiles, merges them into package tables, and
// renders markdown pages from environment and packagelist directives.
package main
