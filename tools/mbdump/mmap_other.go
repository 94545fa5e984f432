//go:build !unix

package main

import (
	"errors"
	"os"
)

func mapFile(path string) ([]byte, func(), error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	if len(data) == 0 {
		return nil, nil, errors.New(path + ": empty boot info file")
	}
	return data, func() {}, nil
}
