package model

// Document is a flexible map representing a JSON document arriving in a
// percolation batch. The documentID is the only required field for
// identification. String-valued fields hold the text that gets indexed;
// which ones are indexed depends on the monitor settings.
// Example: doc["body"], doc["title"]
type Document map[string]interface{}

// GetDocumentID returns the documentID if it's stored in the document map
// under the "documentID" key.
func (d Document) GetDocumentID() (string, bool) {
	if id, ok := d["documentID"]; ok {
		if str, sok := id.(string); sok {
			if str != "" {
				return str, true
			}
		}
	}
	return "", false
}

// TextField returns the value of a field if it is a string.
func (d Document) TextField(name string) (string, bool) {
	if v, ok := d[name]; ok {
		if s, sok := v.(string); sok {
			return s, true
		}
	}
	return "", false
}
