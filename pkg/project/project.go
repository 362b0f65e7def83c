// Package project locates the files of a story project on disk.
//
// A project is a directory laid out as
//
//	<dir>/
//	  game.json            the story document (any single *.json file)
//	  novelgraph.toml      optional settings
//	  images/upload/       imported scene images
//	  images/temp_mini/    thumbnail cache, emptied when a session closes
package project

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/novelgraph/pkg/errors"
)

// Layout names relative to the project directory.
const (
	DefaultGameFile = "game.json"
	UploadDir       = "images/upload"
	ThumbDir        = "images/temp_mini"
)

// Project is an opened project directory.
type Project struct {
	Dir      string
	GameFile string
	Settings *Settings
}

// Create lays out a new project in dir and opens it. An existing game file
// is left untouched.
func Create(dir string) (*Project, error) {
	if err := errors.ValidateProjectDir(dir); err != nil {
		return nil, err
	}
	for _, sub := range []string{UploadDir, ThumbDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, err
		}
	}
	if _, err := findGameFile(dir); err != nil {
		if err := os.WriteFile(filepath.Join(dir, DefaultGameFile), []byte("{}"), 0o644); err != nil {
			return nil, err
		}
	}
	settings := filepath.Join(dir, SettingsFile)
	if _, err := os.Stat(settings); os.IsNotExist(err) {
		if err := SaveSettings(settings, DefaultSettings()); err != nil {
			return nil, err
		}
	}
	return Open(dir)
}

// Open opens an existing project. The game file is the first *.json file in
// dir by name.
func Open(dir string) (*Project, error) {
	if err := errors.ValidateProjectDir(dir); err != nil {
		return nil, err
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "project %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s is not a directory", dir)
	}
	game, err := findGameFile(dir)
	if err != nil {
		return nil, err
	}
	s, err := LoadSettings(filepath.Join(dir, SettingsFile))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read %s", SettingsFile)
	}
	return &Project{Dir: dir, GameFile: game, Settings: s}, nil
}

func findGameFile(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", errors.New(errors.ErrCodeNotFound, "no *.json game file in %s", dir)
	}
	slices.Sort(matches)
	return matches[0], nil
}

// UploadPath returns the directory imported images are kept in.
func (p *Project) UploadPath() string { return filepath.Join(p.Dir, UploadDir) }

// ThumbPath returns the thumbnail cache directory.
func (p *Project) ThumbPath() string { return filepath.Join(p.Dir, ThumbDir) }

// Resolve turns a path stored in the document into a filesystem path.
func (p *Project) Resolve(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.Dir, rel)
}

// ImportImage converts src to JPEG inside the upload directory and returns
// the project-relative path to store on a scene node.
func (p *Project) ImportImage(src string) (string, error) {
	if err := errors.ValidateAssetPath(src); err != nil {
		return "", err
	}
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if os.IsNotExist(err) {
		return "", errors.Wrap(errors.ErrCodeMissingAsset, err, "image %s", src)
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", src)
	}

	name := filepath.Base(src)
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	rel := filepath.ToSlash(filepath.Join(UploadDir, name+".jpeg"))
	if err := os.MkdirAll(p.UploadPath(), 0o755); err != nil {
		return "", err
	}
	q := imaging.JPEGQuality(p.Settings.Thumbnail.JPEGQuality)
	if err := imaging.Save(img, p.Resolve(rel), q); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "save %s", rel)
	}
	return rel, nil
}
