package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"soft-render/internal/mathutil"
	"soft-render/internal/raster"
	"soft-render/internal/raytrace"
)

// EnvPrefix prefixes environment overrides, e.g. SOFTRENDER_PROFILE_OUTPUT.
const EnvPrefix = "SOFTRENDER"

// Config holds all render, profiling and capture settings.
type Config struct {
	Width      int           `mapstructure:"width"`
	Height     int           `mapstructure:"height"`
	Routine    string        `mapstructure:"routine"`
	Frames     int           `mapstructure:"frames"`
	FrameDelay time.Duration `mapstructure:"frameDelay"`
	LogLevel   string        `mapstructure:"logLevel"`
	LogsDir    string        `mapstructure:"logsDir"`

	Profile  ProfileConfig  `mapstructure:"profile"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Scene    SceneConfig    `mapstructure:"scene"`
}

// ProfileConfig controls the profile record and the on-screen report.
type ProfileConfig struct {
	Output  string `mapstructure:"output"`
	Overlay bool   `mapstructure:"overlay"`
}

// SnapshotConfig controls the capture of the last frame.
type SnapshotConfig struct {
	Path   string `mapstructure:"path"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
}

// SceneConfig lists the spheres of the raytraced scene. Empty means the
// default three-sphere scene.
type SceneConfig struct {
	Spheres []SphereConfig `mapstructure:"spheres"`
}

// SphereConfig describes one sphere.
type SphereConfig struct {
	Center []float64 `mapstructure:"center"`
	Radius float64   `mapstructure:"radius"`
	Color  []int     `mapstructure:"color"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("width", 256)
	v.SetDefault("height", 256)
	v.SetDefault("routine", "scene")
	v.SetDefault("frames", 0)
	v.SetDefault("frameDelay", "0s")
	v.SetDefault("logLevel", "info")
	v.SetDefault("logsDir", "")

	v.SetDefault("profile.output", "profile.bin")
	v.SetDefault("profile.overlay", true)

	v.SetDefault("snapshot.path", "")
	v.SetDefault("snapshot.width", 0)
	v.SetDefault("snapshot.height", 0)

	v.SetDefault("scene.spheres", []any{})
}

// Load reads defaults, then the optional file at path, then environment
// overrides. The file type follows its extension (json, yaml, toml).
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Width      int
	Height     int
	Routine    string
	Frames     int
	ProfileOut string
	Snapshot   string
	LogLevel   string
}

// Resolve applies non-zero flags on top of the loaded settings.
func (c *Config) Resolve(flags Flags) {
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Routine != "" {
		c.Routine = flags.Routine
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.ProfileOut != "" {
		c.Profile.Output = flags.ProfileOut
	}
	if flags.Snapshot != "" {
		c.Snapshot.Path = flags.Snapshot
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
}

// Validate checks sizes, counts and the scene description.
func (c *Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("size must be positive, got %dx%d", c.Width, c.Height))
	}
	if c.Frames < 0 {
		errs = append(errs, fmt.Errorf("frames must be >= 0, got %d", c.Frames))
	}
	if c.FrameDelay < 0 {
		errs = append(errs, fmt.Errorf("frameDelay must be >= 0, got %s", c.FrameDelay))
	}
	if c.Routine == "" {
		errs = append(errs, errors.New("routine is required"))
	}
	if c.Profile.Output == "" {
		errs = append(errs, errors.New("profile.output is required"))
	}
	if _, err := c.BuildScene(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// BuildScene turns the sphere list into a scene.
func (c *Config) BuildScene() (*raytrace.Scene, error) {
	if len(c.Scene.Spheres) == 0 {
		return raytrace.DefaultScene(), nil
	}
	spheres := make([]raytrace.Sphere, len(c.Scene.Spheres))
	for i, sc := range c.Scene.Spheres {
		if len(sc.Center) != 3 {
			return nil, fmt.Errorf("sphere %d: center needs 3 components, got %d", i, len(sc.Center))
		}
		if len(sc.Color) != 3 {
			return nil, fmt.Errorf("sphere %d: color needs 3 channels, got %d", i, len(sc.Color))
		}
		var rgb [3]uint8
		for k, ch := range sc.Color {
			if ch < 0 || ch > 255 {
				return nil, fmt.Errorf("sphere %d: color channel %d out of range: %d", i, k, ch)
			}
			rgb[k] = uint8(ch)
		}
		spheres[i] = raytrace.Sphere{
			Center: mathutil.V3(sc.Center[0], sc.Center[1], sc.Center[2]),
			Radius: sc.Radius,
			Color:  raster.Color{R: rgb[0], G: rgb[1], B: rgb[2]},
		}
	}
	return raytrace.NewScene(spheres...)
}
