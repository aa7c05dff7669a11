package prerender

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ConfigDefault = "prerender.yaml"

	SlugSourceFilename = "filename"
	SlugSourceTitle    = "title"

	// MaxPollsUnbounded makes blog pages wait for readiness forever
	MaxPollsUnbounded = -1
)

var (
	StaticRoutesDefault = []string{
		"/",
		"/collection",
		"/blog",
		"/gallery",
		"/quiz",
		"/contact",
		"/landing/dubai",
		"/landing/london",
	}

	ReservedDefault = []string{
		"README.md",
		"CHANGELOG.md",
	}
)

// Config holds all knobs of the pipeline. Relative paths are resolved
// against Root with [Config.Path].
type Config struct {
	Root         string   `yaml:"root"`
	PostsDir     string   `yaml:"posts_dir"`
	DistDir      string   `yaml:"dist_dir"`
	Manifest     string   `yaml:"manifest"`
	BaseUrl      string   `yaml:"base_url"`
	Reserved     []string `yaml:"reserved"`
	StaticRoutes []string `yaml:"static_routes"`
	SlugFrom     string   `yaml:"slug_from"`

	Post     PostConfig     `yaml:"post"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Inject   InjectConfig   `yaml:"inject"`
}

// PostConfig holds metadata defaults for newly generated posts.
type PostConfig struct {
	Category string `yaml:"category"`
	ReadTime int    `yaml:"read_time"`
	ImageUrl string `yaml:"image_url"`
}

type SnapshotConfig struct {
	Addr              string        `yaml:"addr"`
	Delay             time.Duration `yaml:"delay"`
	BlogInitialDelay  time.Duration `yaml:"blog_initial_delay"`
	PollInterval      time.Duration `yaml:"poll_interval"`
	SettleDelay       time.Duration `yaml:"settle_delay"`
	MaxPolls          int           `yaml:"max_polls"` // MaxPollsUnbounded polls until ready
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
	ReadyAttribute    string        `yaml:"ready_attribute"`
	MinArticleChars   int           `yaml:"min_article_chars"`
	ChromePath        string        `yaml:"chrome_path"`
	UserAgent         string        `yaml:"user_agent"`
	Width             int           `yaml:"width"`
	Height            int           `yaml:"height"`

	// Pointers so that an explicit false in YAML survives setDefaults
	Minify     *bool `yaml:"minify"`
	WriteShell *bool `yaml:"write_shell"`
	Sitemap    *bool `yaml:"sitemap"`
}

type InjectConfig struct {
	MarkerStyle  string `yaml:"marker_style"`
	MarkerPhrase string `yaml:"marker_phrase"`
	Container    string `yaml:"container"`
	Article      string `yaml:"article"`
	Engine       string `yaml:"engine"`
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() Config {
	c := Config{}
	c.setDefaults()

	return c
}

// LoadConfig reads the YAML config at path. If path is the default
// config file name and it does not exist, defaults are returned.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = ConfigDefault
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && path == ConfigDefault {
			return DefaultConfig(), nil
		}

		return Config{}, fmt.Errorf("failed to read config from file '%s': %w", path, err)
	}

	return ParseConfig(b)
}

func ParseConfig(b []byte) (Config, error) {
	c := Config{}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	err := dec.Decode(&c)
	if err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	c.setDefaults()
	err = c.validate()
	if err != nil {
		return Config{}, err
	}

	return c, nil
}

// Path resolves p against c.Root unless p is absolute.
func (c *Config) Path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}

	return filepath.Join(c.Root, p)
}

func (c *Config) Posts() string { return c.Path(c.PostsDir) }
func (c *Config) Dist() string  { return c.Path(c.DistDir) }

func (c *Config) setDefaults() {
	if c.Root == "" {
		c.Root = "."
	}
	if c.PostsDir == "" {
		c.PostsDir = "src/posts"
	}
	if c.DistDir == "" {
		c.DistDir = "dist"
	}
	if c.Manifest == "" {
		c.Manifest = "src/data/posts.json"
	}
	if c.Reserved == nil {
		c.Reserved = ReservedDefault
	}
	if c.StaticRoutes == nil {
		c.StaticRoutes = StaticRoutesDefault
	}
	if c.SlugFrom == "" {
		c.SlugFrom = SlugSourceFilename
	}

	if c.Post.Category == "" {
		c.Post.Category = "Interior Design"
	}
	if c.Post.ReadTime == 0 {
		c.Post.ReadTime = 5
	}
	if c.Post.ImageUrl == "" {
		c.Post.ImageUrl = "/images/blog/placeholder.jpg"
	}

	s := &c.Snapshot
	if s.Addr == "" {
		s.Addr = "127.0.0.1:0"
	}
	if s.Delay == 0 {
		s.Delay = 500 * time.Millisecond
	}
	if s.BlogInitialDelay == 0 {
		s.BlogInitialDelay = 2 * time.Second
	}
	if s.PollInterval == 0 {
		s.PollInterval = 500 * time.Millisecond
	}
	if s.SettleDelay == 0 {
		s.SettleDelay = time.Second
	}
	if s.MaxPolls == 0 {
		s.MaxPolls = 60
	}
	if s.NavigationTimeout == 0 {
		s.NavigationTimeout = 30 * time.Second
	}
	if s.ReadyAttribute == "" {
		s.ReadyAttribute = "data-blog-loaded"
	}
	if s.MinArticleChars == 0 {
		s.MinArticleChars = 50
	}
	if s.Width == 0 {
		s.Width = 1440
	}
	if s.Height == 0 {
		s.Height = 900
	}
	if s.Minify == nil {
		s.Minify = ptr(true)
	}
	if s.WriteShell == nil {
		s.WriteShell = ptr(true)
	}
	if s.Sitemap == nil {
		s.Sitemap = ptr(true)
	}

	i := &c.Inject
	if i.MarkerStyle == "" {
		i.MarkerStyle = "min-height: 60vh"
	}
	if i.MarkerPhrase == "" {
		i.MarkerPhrase = "Oops, something went wrong"
	}
	if i.Container == "" {
		i.Container = "#root"
	}
	if i.Article == "" {
		i.Article = "article"
	}
	if i.Engine == "" {
		i.Engine = "goldmark"
	}
}

func (c *Config) validate() error {
	switch c.SlugFrom {
	case SlugSourceFilename, SlugSourceTitle:
	default:
		return fmt.Errorf("invalid slug_from '%s', expecting '%s' or '%s'", c.SlugFrom, SlugSourceFilename, SlugSourceTitle)
	}

	if c.Snapshot.MaxPolls < MaxPollsUnbounded {
		return fmt.Errorf("invalid snapshot.max_polls %d", c.Snapshot.MaxPolls)
	}

	for i := range c.StaticRoutes {
		r := c.StaticRoutes[i]
		if len(r) == 0 || r[0] != '/' {
			return fmt.Errorf("static route '%s' is not absolute: %w", r, ErrBadRoute)
		}
	}

	return nil
}

func ptr[T any](v T) *T { return &v }
