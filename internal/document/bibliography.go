package document

import (
	"os"
	"regexp"
	"strings"
)

var fencePattern = regexp.MustCompile("(?m)^\\s*```[a-zA-Z]*\\s*$")

// bibliography embeds the BibTeX entry of every cited key. Entries live in vault notes
// named after the key, usually wrapped in a ```bibtex fence.
func (r *Renderer) bibliography(keys []string) string {
	var parts []string
	for _, key := range keys {
		path, err := r.finder.Find(key+".md", "")
		if err != nil {
			r.log.Warn("citation source not found", "key", key)
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			r.log.Warn("failed to read citation source", "key", key, "path", path, "error", err)
			continue
		}

		entry := strings.TrimSpace(fencePattern.ReplaceAllString(string(data), ""))
		if entry == "" {
			continue
		}
		parts = append(parts,
			"\\begin{filecontents*}{"+key+".bib}\n"+entry+"\n\\end{filecontents*}\n"+
				"\\addbibresource{"+key+".bib}")
	}
	return strings.Join(parts, "\n\n")
}
