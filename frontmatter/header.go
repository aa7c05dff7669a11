package frontmatter

import (
	"bytes"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/soyart/prerender"
)

const delimHeader = "---"

// Header formats meta as a YAML block framed by "---" lines,
// followed by a blank line. String values are always double-quoted.
func Header(meta prerender.Meta) ([]byte, error) {
	image := mapping(
		"url", quoted(meta.Image.URL),
		"alt", quoted(meta.Image.Alt),
	)

	root := mapping(
		"title", quoted(meta.Title),
		"excerpt", quoted(meta.Excerpt),
		"category", quoted(meta.Category),
		"date", quoted(meta.Date),
		"readTime", integer(meta.ReadTime),
		"image", image,
	)

	buf := bytes.NewBufferString(delimHeader + "\n")
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)

	err := enc.Encode(root)
	if err == nil {
		err = enc.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata for '%s': %w", meta.Title, err)
	}

	buf.WriteString(delimHeader + "\n\n")
	return buf.Bytes(), nil
}

func mapping(kv ...any) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for i := 0; i+1 < len(kv); i += 2 {
		key := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: kv[i].(string),
		}

		n.Content = append(n.Content, key, kv[i+1].(*yaml.Node))
	}

	return n
}

func quoted(s string) *yaml.Node {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!str",
		Style: yaml.DoubleQuotedStyle,
		Value: s,
	}
}

func integer(i int) *yaml.Node {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!int",
		Value: strconv.Itoa(i),
	}
}
