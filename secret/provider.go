package secret

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Provider resolves secrets by reference string.
//
// Implementations must be safe for concurrent use and must not log secret values.
type Provider interface {
	Name() string
	Resolve(ctx context.Context, ref string) (string, error)
}

// EnvProvider reads secrets from environment variables.
type EnvProvider struct{}

func (EnvProvider) Name() string { return "env" }

func (EnvProvider) Resolve(_ context.Context, ref string) (string, error) {
	v, ok := os.LookupEnv(ref)
	if !ok {
		return "", fmt.Errorf("%w: env %s", ErrNotFound, ref)
	}
	return v, nil
}

// FileProvider reads secrets from files, such as mounted container secrets.
// Surrounding whitespace is trimmed.
type FileProvider struct{}

func (FileProvider) Name() string { return "file" }

func (FileProvider) Resolve(ctx context.Context, ref string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := os.ReadFile(ref)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: file %s", ErrNotFound, ref)
		}
		return "", fmt.Errorf("secret: read %s: %w", ref, err)
	}
	return strings.TrimSpace(string(b)), nil
}

var (
	_ Provider = EnvProvider{}
	_ Provider = FileProvider{}
)
