package importer

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alexanderramin/plancraft/internal/domain"
)

// FileSource serves the question set in a file instead of asking the
// backend. The file is re-read on every call.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Generate loads, validates and converts the file. Validation problems are
// a GenerationError listing all of them; read and parse failures are
// returned as is.
func (s *FileSource) Generate(ctx context.Context, goal string, _ domain.AnswerMap) (*domain.QuestionSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := LoadQuestionFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", s.path, err)
	}
	if errs := ValidateQuestionFile(file); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, &domain.GenerationError{Reason: "invalid question file: " + strings.Join(msgs, "; ")}
	}
	return Convert(file, goal), nil
}

// Available reports whether the file can be opened. Its contents are only
// checked by Generate.
func (s *FileSource) Available(ctx context.Context) bool {
	f, err := os.Open(s.path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
