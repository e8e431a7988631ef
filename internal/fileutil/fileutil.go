package fileutil

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// NetworkBufferSize is the read buffer used against network shares. Sized for
// SMB/NFS throughput rather than single syscalls.
const NetworkBufferSize = 1 << 20

// CopyFile streams src to dst with default permissions (0o644).
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	buf := make([]byte, NetworkBufferSize)
	if _, err := io.CopyBuffer(out, in, buf); err != nil {
		return err
	}
	return out.Close()
}

// CopyFileVerified streams src to dst with size and SHA-256 integrity
// verification. When wantHex is non-empty the written stream must also match
// that digest, catching source files that changed since they were analyzed.
// dst is removed on any mismatch.
func CopyFileVerified(src, dst, wantHex string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	srcSize := srcInfo.Size()

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	hasher := sha256.New()
	multi := io.MultiWriter(out, hasher)

	buf := make([]byte, NetworkBufferSize)
	written, err := io.CopyBuffer(multi, in, buf)
	if err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if written != srcSize {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcSize, written)
	}

	sum := hasher.Sum(nil)
	if wantHex != "" {
		want, decodeErr := hex.DecodeString(wantHex)
		if decodeErr != nil {
			_ = os.Remove(dst)
			return fmt.Errorf("decode expected digest: %w", decodeErr)
		}
		if !bytes.Equal(sum, want) {
			_ = os.Remove(dst)
			return fmt.Errorf("copy hash mismatch: source changed since analysis")
		}
	}
	return nil
}

// HashFile streams a file through SHA-256 and returns the hex digest.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hasher := sha256.New()
	buf := make([]byte, NetworkBufferSize)
	if _, err := io.CopyBuffer(hasher, f, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
