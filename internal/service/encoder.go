package service

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
)

// EncodeDocument читает файл целиком и возвращает base64 представление и
// фактический размер в байтах. Чтение ограничено maxBytes, превышение — ошибка:
// конвейер не должен отправлять усечённый документ.
func EncodeDocument(r io.Reader, maxBytes int64) (string, int64, error) {
	var buf bytes.Buffer
	limited := io.LimitedReader{R: r, N: maxBytes + 1}

	written, err := io.Copy(&buf, &limited)
	if err != nil {
		return "", 0, fmt.Errorf("encoder: ошибка чтения файла: %w", err)
	}
	if written > maxBytes {
		return "", 0, fmt.Errorf("encoder: размер файла превышает лимит %d байт", maxBytes)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), written, nil
}

// DecodeDocument восстанавливает исходные байты из base64 представления.
func DecodeDocument(encoded string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("encoder: некорректное base64 представление: %w", err)
	}
	return raw, nil
}
