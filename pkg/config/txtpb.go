// dlist uses flags and a single optional config file for configuration.
// The config file is a google.protobuf.Struct in .txtpb format; each entry names a flag and holds its value:
//
//	fields { key: "log_level" value { string_value: "debug" } }
//	fields { key: "keyspace_shard_count" value { number_value: 8 } }

package config

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/types/known/structpb"
)

// skippedConfigFlags can only be set on the command line.
var skippedConfigFlags = []string{"print_version", "config_file"}

// protobufValueToString converts a config value to its string representation suitable for flag setting.
func protobufValueToString(v *structpb.Value) (string, error) {
	switch kind := v.GetKind().(type) {
	case *structpb.Value_BoolValue:
		return strconv.FormatBool(kind.BoolValue), nil
	case *structpb.Value_NumberValue:
		// Integral numbers must not leak a fraction or exponent into integer flags.
		if kind.NumberValue == math.Trunc(kind.NumberValue) && math.Abs(kind.NumberValue) < 1<<53 {
			return strconv.FormatInt(int64(kind.NumberValue), 10), nil
		}
		return strconv.FormatFloat(kind.NumberValue, 'g', -1, 64), nil
	case *structpb.Value_StringValue:
		return kind.StringValue, nil
	case *structpb.Value_StructValue, *structpb.Value_ListValue:
		return "", fmt.Errorf("nested structs/lists are not supported")
	case *structpb.Value_NullValue, nil:
		return "", fmt.Errorf("null values are not supported")
	default:
		return "", fmt.Errorf("unsupported kind: %T", kind)
	}
}

// collectConfigFlags converts every entry of `conf` into a flag name / value pair.
// Unknown and command-line-only flags are rejected.
func collectConfigFlags(conf *structpb.Struct) (map[ /*flagName*/ string] /*flagValue*/ string, error) {
	flags := make(map[string]string, len(conf.GetFields()))
	for flagName, value := range conf.GetFields() {
		for _, skipped := range skippedConfigFlags {
			if flagName == skipped {
				return nil, fmt.Errorf("flag '%s' can't be set from the config file", flagName)
			}
		}
		if flag.Lookup(flagName) == nil {
			return nil, fmt.Errorf("config entry '%s' doesn't match any defined flag", flagName)
		}
		stringValue, err := protobufValueToString(value)
		if err != nil {
			return nil, fmt.Errorf("failed to convert '%s': %w", flagName, err)
		}
		flags[flagName] = stringValue
	}
	return flags, nil
}

// parseConfig decodes the txtpb contents of a config file.
func parseConfig(configBytes []byte) (*structpb.Struct, error) {
	conf := new(structpb.Struct)
	if err := prototext.Unmarshal(configBytes, conf); err != nil {
		return nil, err
	}
	return conf, nil
}

// setConfigFlags sets all the filled flags in the given `conf` to the global flag variables, except the ones
// named in `commandLine`.
func setConfigFlags(conf *structpb.Struct, commandLine map[string]bool) error {
	configFlags, err := collectConfigFlags(conf)
	if err != nil {
		return fmt.Errorf("failed to collect flags: %w", err)
	}
	for flagName, flagValue := range configFlags {
		if commandLine[flagName] {
			slog.Info("Flag is set on the command line; ignoring its config entry.", "flag", flagName)
			continue
		}
		if setErr := flag.Set(flagName, flagValue); setErr != nil {
			return fmt.Errorf("failed to set flag %s: %w", flagName, setErr)
		}
	}
	return nil
}
