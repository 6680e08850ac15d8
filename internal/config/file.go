package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ProjectFile is the project-level settings file, read from the working
// directory.
const ProjectFile = "contentbot.yaml"

// File is the shape of contentbot.yaml and $CONFIG_DIR/config.yaml. Zero
// values mean "not set" so files can be layered.
type File struct {
	Repo     string        `yaml:"repo"`
	Days     int           `yaml:"days"`
	Source   string        `yaml:"source"`
	Provider string        `yaml:"provider"`
	Model    string        `yaml:"model"`
	Template string        `yaml:"template"`
	Out      string        `yaml:"out"`
	State    string        `yaml:"state"`
	Timeout  time.Duration `yaml:"timeout"`
	Issue    *bool         `yaml:"issue"`
	Redis    RedisSection  `yaml:"redis"`
	Mongo    MongoSection  `yaml:"mongo"`
}

// RedisSection selects the Redis watermark store when Addr is set.
type RedisSection struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Key      string `yaml:"key"`
}

// MongoSection enables the MongoDB draft archive when URI is set.
type MongoSection struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

// GlobalFile returns the path of the global settings file, or "" when no
// config directory can be determined.
func GlobalFile() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// LoadFile reads one settings file. A missing file yields a zero File.
func LoadFile(path string) (File, error) {
	var f File
	if path == "" {
		return f, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return f, nil
		}
		return f, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return f, nil
}

// Load reads the global file and then the project file, letting project
// values win.
func Load() (File, error) {
	global, err := LoadFile(GlobalFile())
	if err != nil {
		return File{}, err
	}
	project, err := LoadFile(ProjectFile)
	if err != nil {
		return File{}, err
	}
	return Merge(global, project), nil
}

// Merge overlays every set field of top onto base.
func Merge(base, top File) File {
	out := base
	setString(&out.Repo, top.Repo)
	setString(&out.Source, top.Source)
	setString(&out.Provider, top.Provider)
	setString(&out.Model, top.Model)
	setString(&out.Template, top.Template)
	setString(&out.Out, top.Out)
	setString(&out.State, top.State)
	if top.Days != 0 {
		out.Days = top.Days
	}
	if top.Timeout != 0 {
		out.Timeout = top.Timeout
	}
	if top.Issue != nil {
		out.Issue = top.Issue
	}

	setString(&out.Redis.Addr, top.Redis.Addr)
	setString(&out.Redis.Password, top.Redis.Password)
	setString(&out.Redis.Key, top.Redis.Key)
	if top.Redis.DB != 0 {
		out.Redis.DB = top.Redis.DB
	}

	setString(&out.Mongo.URI, top.Mongo.URI)
	setString(&out.Mongo.Database, top.Mongo.Database)
	setString(&out.Mongo.Collection, top.Mongo.Collection)
	return out
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
