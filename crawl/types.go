package crawl

import (
	"regexp"
	"sort"
	"strings"
)

// Item is one node of the crawled asset tree.
type Item struct {
	Name        string  `json:"name"`
	Path        string  `json:"path"`
	ContentType string  `json:"contentType"`
	Children    []*Item `json:"children,omitempty"`
}

var operatorIDPattern = regexp.MustCompile(`(?i)(build_char_|char_)(\d+_[a-zA-Z0-9]+)`)

// GroupOperators folds the flat chararts and skinpack listings into one tree
// keyed by operator ID, with base sprites under "base" and skins under
// "skin". Files whose names don't carry an operator ID are dropped, as are
// monobehaviour assets.
func GroupOperators(chararts, skinpack []*Item) []*Item {
	operators := make(map[string]*Item)

	insert := func(items []*Item, folder string) {
		for _, item := range flatten(items) {
			if strings.HasPrefix(strings.ToLower(item.Name), "monobehaviour_") {
				continue
			}
			m := operatorIDPattern.FindStringSubmatch(item.Name)
			if m == nil {
				continue
			}
			opID := "char_" + strings.ToLower(m[2])

			op, ok := operators[opID]
			if !ok {
				op = &Item{
					Name:        opID,
					Path:        opID,
					ContentType: "dir",
					Children: []*Item{
						{Name: "base", Path: opID + "/base", ContentType: "dir"},
						{Name: "skin", Path: opID + "/skin", ContentType: "dir"},
					},
				}
				operators[opID] = op
			}
			for _, child := range op.Children {
				if child.Name == folder {
					child.Children = append(child.Children, &Item{
						Name:        item.Name,
						Path:        opID + "/" + folder + "/" + item.Name,
						ContentType: "file",
					})
				}
			}
		}
	}
	insert(chararts, "base")
	insert(skinpack, "skin")

	out := make([]*Item, 0, len(operators))
	for _, op := range operators {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func flatten(items []*Item) []*Item {
	var files []*Item
	for _, item := range items {
		if item.ContentType == "dir" {
			files = append(files, flatten(item.Children)...)
			continue
		}
		files = append(files, item)
	}
	return files
}
