package config

import (
	"bytes"
	"compress/zlib"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// A packed scene wraps the TOML text in a small binary envelope with
// optional zlib compression and AES-GCM encryption.
const (
	packMagic     = "OVPVIEW-SCENE"
	packVersionV1 = uint16(1)
	packFlagComp  = uint16(1 << 0)
	packFlagEnc   = uint16(1 << 1)
	packSaltSize  = 16
	packNonceSize = 12
	packHeader    = len(packMagic) + 2 + 2 + packSaltSize + packNonceSize + 8
	kdfIterations = 200000
)

var (
	ErrUnsupportedVersion = errors.New("config: unsupported scene envelope version")
	ErrPasswordRequired   = errors.New("config: password required")
	ErrInvalidPassword    = errors.New("config: invalid password")
	ErrInvalidEnvelope    = errors.New("config: invalid scene envelope")
)

type EncryptionOptions struct {
	Enabled  bool
	Password string
}

type SaveOptions struct {
	Compression bool
	Encryption  EncryptionOptions
}

func (o SaveOptions) packed() bool { return o.Compression || o.Encryption.Enabled }

type LoadOptions struct {
	Password string
}

type EnvelopeInfo struct {
	Packed     bool
	Compressed bool
	Encrypted  bool
	Version    uint16
}

func isPacked(b []byte) bool {
	return len(b) >= len(packMagic) && string(b[:len(packMagic)]) == packMagic
}

// InspectEnvelope reports how b is packed. Plain TOML yields a zero
// EnvelopeInfo.
func InspectEnvelope(b []byte) (EnvelopeInfo, error) {
	info := EnvelopeInfo{}
	if !isPacked(b) {
		return info, nil
	}
	if len(b) < packHeader {
		return info, ErrInvalidEnvelope
	}
	m := len(packMagic)
	version := binary.LittleEndian.Uint16(b[m : m+2])
	if version != packVersionV1 {
		return info, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	flags := binary.LittleEndian.Uint16(b[m+2 : m+4])
	info.Packed = true
	info.Compressed = flags&packFlagComp != 0
	info.Encrypted = flags&packFlagEnc != 0
	info.Version = version
	return info, nil
}

func pack(payload []byte, opts SaveOptions) ([]byte, error) {
	flags := uint16(0)
	var err error
	if opts.Compression {
		flags |= packFlagComp
		if payload, err = compress(payload); err != nil {
			return nil, err
		}
	}

	salt := make([]byte, packSaltSize)
	nonce := make([]byte, packNonceSize)
	if opts.Encryption.Enabled {
		if strings.TrimSpace(opts.Encryption.Password) == "" {
			return nil, ErrPasswordRequired
		}
		flags |= packFlagEnc
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return nil, err
		}
		if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
			return nil, err
		}
		gcm, err := sceneCipher(opts.Encryption.Password, salt)
		if err != nil {
			return nil, err
		}
		payload = gcm.Seal(nil, nonce, payload, nil)
	}

	m := len(packMagic)
	out := make([]byte, packHeader, packHeader+len(payload))
	copy(out, packMagic)
	binary.LittleEndian.PutUint16(out[m:m+2], packVersionV1)
	binary.LittleEndian.PutUint16(out[m+2:m+4], flags)
	copy(out[m+4:], salt)
	copy(out[m+4+packSaltSize:], nonce)
	binary.LittleEndian.PutUint64(out[m+4+packSaltSize+packNonceSize:], uint64(len(payload)))
	return append(out, payload...), nil
}

func unpack(b []byte, opts LoadOptions) ([]byte, error) {
	info, err := InspectEnvelope(b)
	if err != nil {
		return nil, err
	}
	if !info.Packed {
		return nil, ErrInvalidEnvelope
	}
	m := len(packMagic)
	salt := b[m+4 : m+4+packSaltSize]
	nonce := b[m+4+packSaltSize : m+4+packSaltSize+packNonceSize]
	n := binary.LittleEndian.Uint64(b[m+4+packSaltSize+packNonceSize:])
	if uint64(len(b)-packHeader) != n {
		return nil, ErrInvalidEnvelope
	}
	payload := append([]byte(nil), b[packHeader:]...)

	if info.Encrypted {
		if strings.TrimSpace(opts.Password) == "" {
			return nil, ErrPasswordRequired
		}
		gcm, err := sceneCipher(opts.Password, salt)
		if err != nil {
			return nil, err
		}
		if payload, err = gcm.Open(nil, nonce, payload, nil); err != nil {
			return nil, ErrInvalidPassword
		}
	}
	if info.Compressed {
		if payload, err = decompress(payload); err != nil {
			return nil, fmt.Errorf("decompress scene: %w", err)
		}
	}
	return payload, nil
}

func sceneCipher(password string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(password), salt, kdfIterations, 32, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func compress(in []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestSpeed)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(in); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(in []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(in))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
