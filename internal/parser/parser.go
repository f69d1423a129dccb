// Package parser turns raw JSON text into the canonical value model. It
// walks the decoder token stream instead of decoding into maps so that
// object member order survives parsing.
package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	stderrors "errors"

	"github.com/fieldsift/fieldsift/internal/errors"
	"github.com/fieldsift/fieldsift/internal/models"
)

// Parse reads a single JSON document from reader into a canonical value.
func Parse(reader io.Reader) (*models.Value, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber() // numbers arrive as json.Number, converted to doubles below

	tok, err := decoder.Token()
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		return nil, wrapTokenError(err)
	}

	value, err := parseValue(decoder, tok)
	if err != nil {
		return nil, err
	}

	// A document is exactly one JSON value; anything but EOF after it is an
	// error.
	if _, err := decoder.Token(); !stderrors.Is(err, io.EOF) {
		if err == nil {
			return nil, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
		}
		return nil, wrapTokenError(err)
	}

	return value, nil
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (*models.Value, error) {
	if strings.TrimSpace(jsonString) == "" {
		return nil, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString))
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (*models.Value, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return nil, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return Parse(file)
}

// parseValue builds a canonical value from the token already consumed plus
// whatever the decoder yields for its children.
func parseValue(decoder *json.Decoder, tok json.Token) (*models.Value, error) {
	switch t := tok.(type) {
	case nil:
		return models.NewNull(), nil
	case bool:
		return models.NewBool(t), nil
	case string:
		return models.NewString(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, errors.NewParsingError(
				fmt.Sprintf("number %q does not fit a double", t.String()),
				errors.ErrInvalidJSON,
			)
		}
		return models.NewNumber(f), nil
	case json.Delim:
		switch t {
		case '{':
			return parseObject(decoder)
		case '[':
			return parseArray(decoder)
		}
	}
	return nil, errors.NewParsingError(fmt.Sprintf("unexpected token %v", tok), errors.ErrInvalidJSON)
}

func parseObject(decoder *json.Decoder) (*models.Value, error) {
	var members []models.Member
	for {
		tok, err := decoder.Token()
		if err != nil {
			return nil, wrapTokenError(err)
		}
		if delim, ok := tok.(json.Delim); ok && delim == '}' {
			return models.NewObject(members...), nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.NewParsingError(fmt.Sprintf("object key is not a string: %v", tok), errors.ErrInvalidJSON)
		}
		valTok, err := decoder.Token()
		if err != nil {
			return nil, wrapTokenError(err)
		}
		val, err := parseValue(decoder, valTok)
		if err != nil {
			return nil, err
		}
		members = append(members, models.Member{Key: key, Value: val})
	}
}

func parseArray(decoder *json.Decoder) (*models.Value, error) {
	var items []*models.Value
	for {
		tok, err := decoder.Token()
		if err != nil {
			return nil, wrapTokenError(err)
		}
		if delim, ok := tok.(json.Delim); ok && delim == ']' {
			return models.NewArray(items...), nil
		}
		val, err := parseValue(decoder, tok)
		if err != nil {
			return nil, err
		}
		items = append(items, val)
	}
}

// wrapTokenError maps decoder errors onto the application error types.
func wrapTokenError(err error) error {
	if stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrUnexpectedEOF) {
		return errors.NewParsingError("unexpected end of JSON input", errors.ErrInvalidJSON)
	}
	var syntaxError *json.SyntaxError
	if stderrors.As(err, &syntaxError) {
		return errors.NewParsingError(
			fmt.Sprintf("JSON syntax error at offset %d: %s", syntaxError.Offset, syntaxError.Error()),
			errors.ErrInvalidJSON,
		)
	}
	return errors.NewParsingError("failed to decode JSON", err)
}
