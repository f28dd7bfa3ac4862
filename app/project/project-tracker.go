package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// ProjectRegistry holds information about all known projects
// It uses a mutex so the TUI's background commands can touch it safely.
type ProjectRegistry struct {
	Projects     map[string]ProjectInfo `json:"projects"`
	LastUsedPath string                 `json:"lastUsedPath"`
	GlobalUsages int                    `json:"globalUsages"`
	RegistryPath string                 `json:"-"`
	mu           sync.RWMutex           `json:"-"`
}

// registryFileName is the name of the file used to store the project registry.
const registryFileName = "projects.json"

// getRegistryPath determines the appropriate path for the registry file.
func getRegistryPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get user home directory: %w", err)
	}
	configDir := filepath.Join(homeDir, ".config", "codebot-cli")
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "", fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}
	return filepath.Join(configDir, registryFileName), nil
}

// LoadProjectRegistry loads the project registry from disk.
// If the registry file doesn't exist, it initializes an empty registry.
func LoadProjectRegistry() (*ProjectRegistry, error) {
	registryPath, err := getRegistryPath()
	if err != nil {
		return nil, err
	}
	return loadRegistryFrom(registryPath)
}

func loadRegistryFrom(registryPath string) (*ProjectRegistry, error) {
	registry := &ProjectRegistry{
		Projects:     make(map[string]ProjectInfo),
		RegistryPath: registryPath,
	}

	data, err := os.ReadFile(registryPath)
	if err != nil {
		if os.IsNotExist(err) {
			return registry, nil
		}
		return nil, fmt.Errorf("error reading registry file %s: %w", registryPath, err)
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()
	if err := json.Unmarshal(data, registry); err != nil {
		return nil, fmt.Errorf("error unmarshalling registry file %s: %w", registryPath, err)
	}
	if registry.Projects == nil {
		registry.Projects = make(map[string]ProjectInfo)
	}
	registry.RegistryPath = registryPath
	return registry, nil
}

// Save persists the current state of the project registry to disk.
func (r *ProjectRegistry) Save() error {
	r.mu.RLock()
	data, err := json.MarshalIndent(r, "", "  ")
	r.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("error marshalling registry: %w", err)
	}

	if err := os.WriteFile(r.RegistryPath, data, 0640); err != nil {
		return fmt.Errorf("error writing registry file %s: %w", r.RegistryPath, err)
	}
	return nil
}

// AddOrUpdateProject adds a new project or updates an existing one in the registry.
// It increments the project's usage count and updates the last access time.
func (r *ProjectRegistry) AddOrUpdateProject(info ProjectInfo) {
	if info.RootPath == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().Unix()
	existingInfo, found := r.Projects[info.RootPath]
	if found {
		existingInfo.UsageCount++
		existingInfo.LastAccessTime = now
		existingInfo.Name = info.Name
		existingInfo.Type = info.Type
		existingInfo.Markers = info.Markers
		existingInfo.GitInfo = info.GitInfo
		r.Projects[info.RootPath] = existingInfo
	} else {
		info.UsageCount = 1
		info.LastAccessTime = now
		r.Projects[info.RootPath] = info
	}

	r.GlobalUsages++
	r.LastUsedPath = info.RootPath
}

// MarkSaved records that the artifact of the project at rootPath was persisted.
func (r *ProjectRegistry) MarkSaved(rootPath string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if info, ok := r.Projects[rootPath]; ok {
		info.LastSaveTime = time.Now().Unix()
		r.Projects[rootPath] = info
	}
}

// GetProject retrieves project info by its root path.
func (r *ProjectRegistry) GetProject(rootPath string) (ProjectInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, found := r.Projects[rootPath]
	return info, found
}

// RecentProjects returns up to n projects, most recently accessed first.
func (r *ProjectRegistry) RecentProjects(n int) []ProjectInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ProjectInfo, 0, len(r.Projects))
	for _, info := range r.Projects {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastAccessTime != out[j].LastAccessTime {
			return out[i].LastAccessTime > out[j].LastAccessTime
		}
		return out[i].RootPath < out[j].RootPath
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// IsSubdirectoryOfProject checks if the given path is within any known project.
// Returns the parent ProjectInfo and true if it's a subdirectory, otherwise false.
func (r *ProjectRegistry) IsSubdirectoryOfProject(currentPath string) (ProjectInfo, bool) {
	absCurrentPath, err := filepath.Abs(currentPath)
	if err != nil {
		return ProjectInfo{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for rootPath, info := range r.Projects {
		rel, err := filepath.Rel(rootPath, absCurrentPath)
		if err == nil && !strings.HasPrefix(rel, "..") && rel != "." {
			return info, true
		}
	}
	return ProjectInfo{}, false
}

// Resolve picks the project root for dir. A detected project wins over a
// registered project containing dir; otherwise dir itself becomes a new project.
func (r *ProjectRegistry) Resolve(dir string) ProjectInfo {
	if info, ok := DetectProject(dir); ok {
		return info
	}
	if r != nil {
		if info, ok := r.IsSubdirectoryOfProject(dir); ok {
			return info
		}
	}
	info, _ := createProjectInfo(dir, "new", nil)
	return info
}
