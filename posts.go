package prerender

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/frontmatter"
)

type (
	// Post is a markdown file under the posts directory.
	// It is created once by the frontmatter generator and read-only afterwards.
	Post struct {
		Slug string
		Path string
		Meta Meta
		Body []byte
	}

	Meta struct {
		Title    string `yaml:"title" json:"title"`
		Excerpt  string `yaml:"excerpt" json:"excerpt"`
		Category string `yaml:"category" json:"category"`
		Date     string `yaml:"date" json:"date"`
		ReadTime int    `yaml:"readTime" json:"readTime"`
		Image    Image  `yaml:"image" json:"image"`
	}

	Image struct {
		URL string `yaml:"url" json:"url"`
		Alt string `yaml:"alt" json:"alt"`
	}
)

// ParsePost splits data into its metadata block and markdown body.
// Files without a metadata block are returned with zero Meta and the whole
// file as body.
func ParsePost(path string, data []byte) (Post, error) {
	var meta Meta
	body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		return Post{}, fmt.Errorf("failed to parse metadata of post '%s': %w", path, err)
	}

	return Post{
		Slug: SlugFromFilename(path),
		Path: path,
		Meta: meta,
		Body: body,
	}, nil
}

// ReadPost reads and parses a single post file.
func ReadPost(path string) (Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Post{}, fmt.Errorf("post '%s': %w", path, ErrNotFound)
		}
		return Post{}, err
	}

	return ParsePost(path, data)
}

// PostFiles lists markdown files in dir in directory-listing order.
func PostFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for i := range entries {
		entry := entries[i]
		if entry.IsDir() || filepath.Ext(entry.Name()) != ExtMarkdown {
			continue
		}

		files = append(files, filepath.Join(dir, entry.Name()))
	}

	return files, nil
}
