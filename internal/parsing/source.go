package parsing

import "github.com/your-username/poke-search-api/internal/models"

// FileSource re-reads a monitoring log on every call, so reports always see
// the current contents of the file.
type FileSource struct {
	path   string
	parser *Parser
}

// NewFileSource creates a record source backed by the log at path
func NewFileSource(path string, parser *Parser) *FileSource {
	if parser == nil {
		parser = NewParser()
	}
	return &FileSource{path: path, parser: parser}
}

// Records parses the whole file
func (s *FileSource) Records() ([]models.Record, error) {
	return s.parser.ParseFile(s.path)
}

// Path returns the log file location
func (s *FileSource) Path() string {
	return s.path
}

// Parser returns the parser used for the file
func (s *FileSource) Parser() *Parser {
	return s.parser
}

// StaticSource serves a fixed, already parsed record set
type StaticSource []models.Record

// Records returns the records as-is
func (s StaticSource) Records() ([]models.Record, error) {
	return s, nil
}
