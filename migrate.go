package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

const latestConfigVersion = 1

// migration is a named config migration step.
type migration struct {
	version int
	name    string
	run     func(dir string) error
}

var migrations = []migration{
	{version: 1, name: "split_keyboard_delay", run: splitKeyboardDelay},
}

// migrateConfig runs all pending migrations on the config directory.
func migrateConfig(dir string) error {
	configPath := filepath.Join(dir, configFileName)

	appCfg, err := LoadAppConfig(dir)
	if err != nil {
		return err
	}

	current := appCfg.ConfigVersion
	if current >= latestConfigVersion {
		fmt.Println("clickauto: config already up to date")
		return nil
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		fmt.Printf("clickauto: running migration %d (%s)\n", m.version, m.name)
		if err := m.run(dir); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
	}

	if err := setConfigVersion(configPath, latestConfigVersion); err != nil {
		return fmt.Errorf("set config_version: %w", err)
	}

	fmt.Println("clickauto: migration complete")
	return nil
}

// warnOutdatedConfig prints a migrate hint when cfg predates the latest
// config version and reports whether it did.
func warnOutdatedConfig(w io.Writer, cfg AppConfig) bool {
	if cfg.ConfigVersion >= latestConfigVersion {
		return false
	}
	fmt.Fprintf(w, "clickauto: config is outdated (version %d, latest %d), run clickauto migrate\n",
		cfg.ConfigVersion, latestConfigVersion)
	return true
}

// setConfigVersion updates or inserts config_version in config.yml,
// preserving existing comments and formatting.
func setConfigVersion(path string, version int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			content := fmt.Sprintf("config_version: %d\n", version)
			return os.WriteFile(path, []byte(content), 0644)
		}
		return err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", configFileName, err)
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		content := fmt.Sprintf("config_version: %d\n", version)
		return os.WriteFile(path, []byte(content), 0644)
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("%s root is not a mapping", configFileName)
	}

	if val := mappingValue(root, "config_version"); val != nil {
		val.Value = fmt.Sprintf("%d", version)
		val.Tag = "!!int"
	} else {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: "config_version", Tag: "!!str"}
		valNode := &yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprintf("%d", version), Tag: "!!int"}
		root.Content = append([]*yaml.Node{keyNode, valNode}, root.Content...)
	}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", configFileName, err)
	}

	return os.WriteFile(path, out, 0644)
}

// splitKeyboardDelay replaces the pre-versioning keyboard.delay key with
// press_delay and release_delay. Explicit press/release values win.
func splitKeyboardDelay(dir string) error {
	path := filepath.Join(dir, configFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		fmt.Printf("  skip %s (empty)\n", configFileName)
		return nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		fmt.Printf("  skip %s (not a mapping)\n", configFileName)
		return nil
	}

	kb := mappingValue(root, "keyboard")
	if kb == nil || kb.Kind != yaml.MappingNode {
		fmt.Printf("  skip %s (no keyboard section)\n", configFileName)
		return nil
	}

	delay := mappingValue(kb, "delay")
	if delay == nil {
		fmt.Printf("  skip %s (nothing to migrate)\n", configFileName)
		return nil
	}

	for _, key := range []string{"press_delay", "release_delay"} {
		if mappingValue(kb, key) != nil {
			continue
		}
		kb.Content = append(kb.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key, Tag: "!!str"},
			&yaml.Node{Kind: yaml.ScalarNode, Value: delay.Value, Tag: delay.Tag},
		)
	}
	removeKeysFromMapping(kb, "delay")

	bakPath := path + ".bak"
	if err := os.WriteFile(bakPath, data, 0644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	fmt.Printf("  migrated %s (split keyboard.delay)\n", configFileName)
	return nil
}

// mappingValue returns the value node for key in a mapping node, or nil.
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i < len(node.Content)-1; i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// removeKeysFromMapping removes key/value pairs from a mapping node where the
// key matches any of the given names. Returns the number of pairs removed.
func removeKeysFromMapping(node *yaml.Node, keys ...string) int {
	removed := 0
	filtered := make([]*yaml.Node, 0, len(node.Content))
	for i := 0; i < len(node.Content)-1; i += 2 {
		key := node.Content[i]
		val := node.Content[i+1]
		if slices.Contains(keys, key.Value) {
			removed++
			continue
		}
		filtered = append(filtered, key, val)
	}
	if len(node.Content)%2 != 0 {
		filtered = append(filtered, node.Content[len(node.Content)-1])
	}
	node.Content = filtered
	return removed
}
