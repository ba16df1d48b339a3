//go:build release

package core

const checksEnabled = false
