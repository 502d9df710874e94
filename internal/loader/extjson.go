package loader

import (
	"bytes"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/model"
)

// ReadExtJSON decodes a MongoDB extended JSON export holding either an
// array of documents or a single document. Blank input yields no documents.
func ReadExtJSON(data []byte) ([]model.Document, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '[' {
		// Extended JSON decoding starts at a document, so wrap the array.
		buf := make([]byte, 0, len(data)+10)
		buf = append(buf, `{"docs":`...)
		buf = append(buf, data...)
		buf = append(buf, '}')

		var wrapped struct {
			Docs []bson.M `bson:"docs"`
		}
		if err := bson.UnmarshalExtJSON(buf, false, &wrapped); err != nil {
			return nil, fmt.Errorf("decode extended json array: %w", err)
		}
		docs := make([]model.Document, 0, len(wrapped.Docs))
		for _, d := range wrapped.Docs {
			docs = append(docs, model.Document(d))
		}
		return docs, nil
	}

	var one bson.M
	if err := bson.UnmarshalExtJSON(data, false, &one); err != nil {
		return nil, fmt.Errorf("decode extended json document: %w", err)
	}
	return []model.Document{model.Document(one)}, nil
}
