package config

import (
	"fmt"
	"io/ioutil"
	"sort"

	"github.com/hashicorp/hcl"
	"github.com/spf13/pflag"
)

type setBy int

const (
	byDefault setBy = iota
	byFlag
	byConfig
)

func (sb setBy) String() string {
	switch sb {
	case byFlag:
		return "flag"
	case byConfig:
		return "config"
	}
	return "default"
}

type configVar struct {
	name string
	flag *pflag.Flag
	by   setBy
}

// Config is the set of flags which may also be set by a config file. A flag given on the
// command line always wins over the config file.
type Config struct {
	vars map[string]*configVar
}

func NewConfig() *Config {
	return &Config{
		vars: map[string]*configVar{},
	}
}

// Var makes the flag called name in fs settable from a config file.
func (c *Config) Var(fs *pflag.FlagSet, name string) {
	if _, ok := c.vars[name]; ok {
		panic(fmt.Sprintf("config: variable redefined: %s", name))
	}
	flg := fs.Lookup(name)
	if flg == nil {
		panic(fmt.Sprintf("config: flag not found: %s", name))
	}
	c.vars[name] = &configVar{name: name, flag: flg}
}

// Visit records which flags were set on the command line. It must be called after the flags
// are parsed and before loading a config file.
func (c *Config) Visit(fs *pflag.FlagSet) {
	fs.Visit(
		func(flg *pflag.Flag) {
			if cvar, ok := c.vars[flg.Name]; ok {
				cvar.by = byFlag
			}
		})
}

func (c *Config) LoadFile(configFile string) error {
	b, err := ioutil.ReadFile(configFile)
	if err != nil {
		return err
	}
	return c.Load(string(b))
}

func (c *Config) Load(s string) error {
	var cfg map[string]interface{}

	err := hcl.Decode(&cfg, s)
	if err != nil {
		return err
	}
	for name, val := range cfg {
		cvar, ok := c.vars[name]
		if !ok {
			return fmt.Errorf("%s is not a config variable", name)
		}
		if cvar.by == byFlag {
			continue
		}

		switch val.(type) {
		case []interface{}, []map[string]interface{}, map[string]interface{}:
			return fmt.Errorf("%s: expected a single value; got %v", name, val)
		}
		err := cvar.flag.Value.Set(fmt.Sprintf("%v", val))
		if err != nil {
			return fmt.Errorf("%s: %s", name, err)
		}
		cvar.by = byConfig
	}

	return nil
}

type Setting struct {
	Name  string
	Value string
	By    string
}

// Settings returns the current value of every config variable and how it was set, sorted
// by name.
func (c *Config) Settings() []Setting {
	settings := make([]Setting, 0, len(c.vars))
	for _, cvar := range c.vars {
		settings = append(settings,
			Setting{
				Name:  cvar.name,
				Value: cvar.flag.Value.String(),
				By:    cvar.by.String(),
			})
	}
	sort.Slice(settings,
		func(i, j int) bool {
			return settings[i].Name < settings[j].Name
		})
	return settings
}
