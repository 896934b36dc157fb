//go:build !cgo

package main

import (
	"context"
	"errors"
)

func runWindow(context.Context, *app) error {
	return errors.New("window mode requires cgo; use -frames N for headless rendering")
}
