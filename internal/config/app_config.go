package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/svgtree/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
	// HomeDirectory overrides the user home directory used for the global file.
	HomeDirectory string
}

// ApplicationConfiguration holds defaults for the render command.
type ApplicationConfiguration struct {
	Render RenderConfiguration `mapstructure:"render"`
}

// RenderConfiguration mirrors the render flags. Unset fields leave the flag defaults intact.
type RenderConfiguration struct {
	Output       string   `mapstructure:"output"`
	Depth        *int     `mapstructure:"depth"`
	Exclude      []string `mapstructure:"exclude"`
	FilePreview  []string `mapstructure:"file_preview"`
	Size         *int     `mapstructure:"size"`
	Theme        string   `mapstructure:"theme"`
	Font         string   `mapstructure:"font"`
	UseGitignore *bool    `mapstructure:"use_gitignore"`
	Collapsed    *bool    `mapstructure:"collapsed"`
	SyntaxEngine string   `mapstructure:"syntax_engine"`
	Clipboard    *bool    `mapstructure:"clipboard"`
}

// LoadApplicationConfiguration loads configuration from the global file and then the local one.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	homeDirectory := options.HomeDirectory
	if homeDirectory == "" {
		if resolvedHome, err := os.UserHomeDir(); err == nil {
			homeDirectory = resolvedHome
		}
	}
	if homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(globalPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	if localPath != "" {
		localConfig, loadErr := loadConfigurationFromPath(localPath)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(localConfig)
	}

	merged.Render.Exclude = utils.DeduplicatePatterns(merged.Render.Exclude)
	merged.Render.FilePreview = utils.DeduplicatePatterns(merged.Render.FilePreview)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("resolve configuration path %s: %w", explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	result.Render = result.Render.merge(override.Render)
	return result
}

func (config RenderConfiguration) merge(override RenderConfiguration) RenderConfiguration {
	result := config
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.Depth != nil {
		result.Depth = cloneInt(override.Depth)
	}
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if len(override.FilePreview) > 0 {
		result.FilePreview = append([]string{}, utils.DeduplicatePatterns(override.FilePreview)...)
	}
	if override.Size != nil {
		result.Size = cloneInt(override.Size)
	}
	if override.Theme != "" {
		result.Theme = override.Theme
	}
	if override.Font != "" {
		result.Font = override.Font
	}
	if override.UseGitignore != nil {
		result.UseGitignore = cloneBool(override.UseGitignore)
	}
	if override.Collapsed != nil {
		result.Collapsed = cloneBool(override.Collapsed)
	}
	if override.SyntaxEngine != "" {
		result.SyntaxEngine = override.SyntaxEngine
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
