package pipeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/conversalabs/conversa/pkg/models"
)

// ErrInvalidInput tags every ad-hoc input rejection so callers can map
// the whole family to a 400 without string matching.
var ErrInvalidInput = errors.New("invalid transcript input")

// InputShape identifies which of the accepted request layouts an
// ad-hoc payload used.
type InputShape string

const (
	// ShapeSingleTranscript is one transcript record with a content
	// array, optionally article_url and config.
	ShapeSingleTranscript InputShape = "single_transcript"

	// ShapeMessageList is a bare JSON array of message objects.
	ShapeMessageList InputShape = "message_list"

	// ShapeMultiTranscriptMap maps transcript ids to records; only the
	// first entry in document order is analyzed.
	ShapeMultiTranscriptMap InputShape = "multi_transcript_map"

	// ShapeInvalid marks payloads that fit none of the layouts.
	ShapeInvalid InputShape = "invalid"
)

// ParsedInput is the normalized result of parsing an ad-hoc payload:
// always a single transcript, whatever shape it arrived in.
type ParsedInput struct {
	Shape        InputShape
	TranscriptID string
	Transcript   models.RawTranscript
}

// ParseInput normalizes an ad-hoc analysis payload. Accepted shapes,
// tried in order: a bare message array, a single transcript record,
// and a map of transcript records keyed by id (first entry wins).
func ParseInput(data []byte) (ParsedInput, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return invalid("empty request body")
	}

	switch data[0] {
	case '[':
		return parseMessageList(data)
	case '{':
		return parseObject(data)
	default:
		return invalid("payload must be a JSON object or array")
	}
}

func parseMessageList(data []byte) (ParsedInput, error) {
	var messages []models.RawMessage
	if err := json.Unmarshal(data, &messages); err != nil {
		return invalid("malformed message array: %v", err)
	}
	if len(messages) == 0 {
		return invalid("message array is empty")
	}
	return ParsedInput{
		Shape:      ShapeMessageList,
		Transcript: models.RawTranscript{Content: messages},
	}, nil
}

func parseObject(data []byte) (ParsedInput, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return invalid("malformed JSON object: %v", err)
	}
	if len(probe) == 0 {
		return invalid("empty transcript data")
	}

	// A content key marks a single transcript record.
	if _, ok := probe["content"]; ok {
		var tr models.RawTranscript
		if err := json.Unmarshal(data, &tr); err != nil {
			return invalid("malformed transcript record: %v", err)
		}
		if len(tr.Content) == 0 {
			return invalid("transcript content is empty")
		}
		return ParsedInput{Shape: ShapeSingleTranscript, Transcript: tr}, nil
	}

	// Otherwise treat it as a map of transcripts and analyze the first
	// entry in document order.
	id, raw, err := firstEntry(data)
	if err != nil {
		return invalid("malformed transcript map: %v", err)
	}
	var tr models.RawTranscript
	if err := json.Unmarshal(raw, &tr); err != nil {
		return invalid("transcript %q is not a record: %v", id, err)
	}
	if len(tr.Content) == 0 {
		return invalid("transcript %q has no content", id)
	}
	return ParsedInput{
		Shape:        ShapeMultiTranscriptMap,
		TranscriptID: id,
		Transcript:   tr,
	}, nil
}

// firstEntry walks the object tokens and returns the first key and its
// raw value. Stdlib map decoding loses key order, so this is a manual
// pass over the token stream.
func firstEntry(data []byte) (string, json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil { // opening brace
		return "", nil, err
	}
	tok, err := dec.Token()
	if err != nil {
		return "", nil, err
	}
	key, ok := tok.(string)
	if !ok {
		return "", nil, fmt.Errorf("unexpected token %v", tok)
	}
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return "", nil, err
	}
	return key, raw, nil
}

func invalid(format string, args ...any) (ParsedInput, error) {
	return ParsedInput{Shape: ShapeInvalid},
		fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
