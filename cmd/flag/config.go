// Copyright 2025 StreamNative, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package flag

import (
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/streamnative/placement/coordinator/model"
)

// LoadConfig overlays the config file, if any, on conf. Flags set on the
// command line take precedence over the file.
func LoadConfig(cmd *cobra.Command, conf *model.PlacementConfig) error {
	if ConfigFile == "" {
		return nil
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(ConfigFile)
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read config %s", ConfigFile)
	}

	changed := map[string]string{}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})

	if err := v.Unmarshal(conf, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		model.PlacementConfigViperHook(),
		mapstructure.StringToSliceHookFunc(","), // default hook
	))); err != nil {
		return errors.Wrap(err, "failed to load placement config")
	}

	for name, value := range changed {
		if err := cmd.Flags().Set(name, value); err != nil {
			return err
		}
	}
	return nil
}
