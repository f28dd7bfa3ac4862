package project

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ProjectInfo stores information about a detected robot project
type ProjectInfo struct {
	RootPath       string            `json:"rootPath"`       // Absolute path to project root
	Name           string            `json:"name"`           // Project name (directory name)
	Type           string            `json:"type"`           // Which marker identified the project (config, codebotair, movement, git)
	Markers        []string          `json:"markers"`        // Every marker file found at the root
	GitInfo        map[string]string `json:"gitInfo"`        // Info from .git config (if available)
	UsageCount     int               `json:"usageCount"`     // Times the CLI was used in this project
	LastAccessTime int64             `json:"lastAccessTime"` // Last time project was accessed (Unix timestamp)
	LastSaveTime   int64             `json:"lastSaveTime"`   // Last time the artifact was persisted (Unix timestamp)
}

// projectMarkers are checked in priority order; the first match sets Type.
var projectMarkers = []struct {
	path string
	kind string
}{
	{"codebot.yaml", "config"},
	{"codebotair.py", "codebotair"},
	{filepath.Join("movement_pkg", "movement.py"), "movement"},
}

// DetectProject examines the given directory and parents to find project markers.
// It walks up the directory tree; a .git directory only counts when nothing
// more specific is found on the way up.
func DetectProject(startPath string) (ProjectInfo, bool) {
	var gitFallback string
	currentPath := startPath
	for {
		if markers, kind := checkForMarkers(currentPath); len(markers) > 0 {
			info, ok := createProjectInfo(currentPath, kind, markers)
			if ok {
				if hasGit, gitData := checkForGit(currentPath); hasGit {
					info.GitInfo = gitData
				}
				return info, true
			}
		}

		if gitFallback == "" {
			if hasGit, _ := checkForGit(currentPath); hasGit {
				gitFallback = currentPath
			}
		}

		// Move up one directory
		parentPath := filepath.Dir(currentPath)
		if parentPath == currentPath {
			break
		}
		currentPath = parentPath
	}

	if gitFallback != "" {
		info, ok := createProjectInfo(gitFallback, "git", nil)
		if ok {
			_, info.GitInfo = checkForGit(gitFallback)
			return info, true
		}
	}
	return ProjectInfo{}, false
}

// checkForMarkers lists the marker files present in dir and the kind of the
// highest priority one.
func checkForMarkers(dir string) ([]string, string) {
	var found []string
	kind := ""
	for _, m := range projectMarkers {
		if st, err := os.Stat(filepath.Join(dir, m.path)); err == nil && !st.IsDir() {
			found = append(found, filepath.ToSlash(m.path))
			if kind == "" {
				kind = m.kind
			}
		}
	}
	return found, kind
}

// checkForGit looks for .git directory and extracts basic info from config
func checkForGit(dir string) (bool, map[string]string) {
	gitDir := filepath.Join(dir, ".git")
	if _, err := os.Stat(gitDir); os.IsNotExist(err) {
		return false, nil
	}

	gitInfo := make(map[string]string)
	gitInfo["hasGitDirectory"] = "true"

	data, err := os.ReadFile(filepath.Join(gitDir, "config"))
	if err == nil {
		inRemoteOrigin := false
		for _, line := range strings.Split(string(data), "\n") {
			trimmedLine := strings.TrimSpace(line)
			if strings.HasPrefix(trimmedLine, "[remote \"origin\"]") {
				inRemoteOrigin = true
			} else if inRemoteOrigin && strings.HasPrefix(trimmedLine, "url =") {
				parts := strings.SplitN(trimmedLine, "=", 2)
				gitInfo["remoteOriginUrl"] = strings.TrimSpace(parts[1])
				break
			} else if inRemoteOrigin && strings.HasPrefix(trimmedLine, "[") {
				break
			}
		}
	}

	headData, headErr := os.ReadFile(filepath.Join(gitDir, "HEAD"))
	if headErr == nil {
		headContent := strings.TrimSpace(string(headData))
		if strings.HasPrefix(headContent, "ref: refs/heads/") {
			gitInfo["currentBranch"] = strings.TrimPrefix(headContent, "ref: refs/heads/")
		} else if len(headContent) == 40 { // Detached HEAD state
			gitInfo["currentBranch"] = "DETACHED"
			gitInfo["currentCommit"] = headContent
		}
	}

	return true, gitInfo
}

// createProjectInfo constructs a ProjectInfo struct from detected data.
func createProjectInfo(rootPath, kind string, markers []string) (ProjectInfo, bool) {
	absRootPath, err := filepath.Abs(rootPath)
	if err != nil {
		return ProjectInfo{}, false
	}
	if markers == nil {
		markers = []string{}
	}
	return ProjectInfo{
		RootPath:       absRootPath,
		Name:           filepath.Base(absRootPath),
		Type:           kind,
		Markers:        markers,
		LastAccessTime: time.Now().Unix(),
	}, true
}
