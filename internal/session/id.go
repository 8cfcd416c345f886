package session

import (
	"fmt"

	"tiktok-login/internal/utils"
)

// 256 bits; the id is the only thing binding a browser to its stored state.
const idBytes = 32

func GenerateID() (string, error) {
	id, err := utils.RandomString(idBytes)
	if err != nil {
		return "", fmt.Errorf("session: failed to generate id: %w", err)
	}
	return id, nil
}
