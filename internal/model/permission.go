package model

import (
	"errors"
	"fmt"
)

var ErrInvalidPermission = errors.New("model: invalid permission status")

type PermissionStatus string

const (
	PermissionGranted PermissionStatus = "granted"
	PermissionDenied  PermissionStatus = "denied"
	PermissionDefault PermissionStatus = "default"
)

func (p PermissionStatus) IsValid() bool {
	switch p {
	case PermissionGranted, PermissionDenied, PermissionDefault:
		return true
	default:
		return false
	}
}

func ParsePermission(raw string) (PermissionStatus, error) {
	p := PermissionStatus(raw)
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPermission, raw)
	}
	return p, nil
}

type User struct {
	ID       int64
	Username string
}
