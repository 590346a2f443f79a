package project

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/jsdb-labs/jsdb/internal/branding"
	"github.com/spf13/afero"
)

//go:embed templates
var templateFS embed.FS

const templatesRoot = "templates"

const (
	DirPerm  os.FileMode = 0755
	FilePerm os.FileMode = 0644
)

// TemplateData holds the variables available to project templates.
type TemplateData struct {
	DisplayName string
	ProjectDir  string
}

// Result holds the outcome of Init.
type Result struct {
	// Dir is the absolute path of the marker directory.
	Dir string
	// Created is false when the marker directory already existed.
	Created bool
	// Dirs and Files are relative to Dir, slash separated, in creation order.
	Dirs  []string
	Files []string
}

// Dir returns the marker directory path for a project root.
func Dir(projectPath string) string {
	return filepath.Join(projectPath, branding.ProjectDir())
}

// Init scaffolds the marker directory under projectPath.
//
// Only the marker directory itself is checked: if it exists nothing is
// written, even when some of the template files are missing.
func Init(fsys afero.Fs, projectPath string, w io.Writer) (*Result, error) {
	abs, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, fmt.Errorf("resolving project path %s: %w", projectPath, err)
	}
	root := Dir(abs)
	result := &Result{Dir: root}

	if _, err := fsys.Stat(root); err == nil {
		fmt.Fprintf(w, "%s folder already exists\n", branding.ProjectDir())
		return result, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("checking %s: %w", root, err)
	}

	fmt.Fprintln(w, "Creating folder")
	if err := fsys.Mkdir(root, DirPerm); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", root, err)
	}
	result.Created = true

	data := TemplateData{
		DisplayName: branding.DisplayName(),
		ProjectDir:  branding.ProjectDir(),
	}

	err = fs.WalkDir(templateFS, templatesRoot, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if p == templatesRoot {
			return nil
		}
		rel := strings.TrimPrefix(p, templatesRoot+"/")

		if d.IsDir() {
			dst := filepath.Join(root, filepath.FromSlash(rel))
			if err := fsys.Mkdir(dst, DirPerm); err != nil {
				return fmt.Errorf("creating directory %s: %w", dst, err)
			}
			result.Dirs = append(result.Dirs, rel)
			fmt.Fprintf(w, "  [ OK ] Created %s/\n", path.Join(branding.ProjectDir(), rel))
			return nil
		}

		rel = strings.TrimSuffix(rel, ".tmpl")
		content, err := render(p, data)
		if err != nil {
			return err
		}
		dst := filepath.Join(root, filepath.FromSlash(rel))
		if err := afero.WriteFile(fsys, dst, content, FilePerm); err != nil {
			return fmt.Errorf("writing %s: %w", dst, err)
		}
		result.Files = append(result.Files, rel)
		fmt.Fprintf(w, "  [ OK ] Created %s\n", path.Join(branding.ProjectDir(), rel))
		return nil
	})
	if err != nil {
		return result, err
	}

	return result, nil
}

// render executes one embedded template.
func render(name string, data TemplateData) ([]byte, error) {
	raw, err := fs.ReadFile(templateFS, name)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", name, err)
	}

	tmpl, err := template.New(path.Base(name)).Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
