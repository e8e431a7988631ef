package config

import "strings"

// normalize expands path fields and fills blanks from defaults.
func (c *Config) normalize() error {
	if strings.TrimSpace(c.Organize.IndexFilename) == "" {
		c.Organize.IndexFilename = defaultIndexFilename
	}
	if strings.TrimSpace(c.Cluster.GazetteerPath) == "" {
		c.Cluster.GazetteerPath = defaultGazetteerPath
	}
	expanded, err := expandPath(c.Cluster.GazetteerPath)
	if err != nil {
		return err
	}
	c.Cluster.GazetteerPath = expanded

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}
