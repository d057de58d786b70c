package discord

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// optionTag is the parsed form of a `discord:"..."` struct tag, e.g.
// `discord:"optional,autocomplete,description:Game to list,default:Chess"`.
type optionTag struct {
	optional     bool
	autocomplete bool
	description  string
	choices      string
	def          string
}

func parseDiscordTag(tag string) optionTag {
	var t optionTag
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, ":")
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		switch key {
		case "optional":
			t.optional = true
		case "autocomplete":
			t.autocomplete = true
		case "description":
			t.description = value
		case "choices":
			t.choices = value
		case "default":
			t.def = value
		}
	}
	return t
}

// parseChoices parses "val1|Label1;val2|Label2". A choice without a label is
// its own label.
func parseChoices(s string) []*discordgo.ApplicationCommandOptionChoice {
	var choices []*discordgo.ApplicationCommandOptionChoice
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		value, name, ok := strings.Cut(pair, "|")
		if !ok {
			name = value
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  name,
			Value: value,
		})
	}
	return choices
}

func optionType(k reflect.Kind) discordgo.ApplicationCommandOptionType {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return discordgo.ApplicationCommandOptionInteger
	case reflect.Float32, reflect.Float64:
		return discordgo.ApplicationCommandOptionNumber
	case reflect.Bool:
		return discordgo.ApplicationCommandOptionBoolean
	default:
		return discordgo.ApplicationCommandOptionString
	}
}

// setDefaults fills zero fields of the struct pointed to by req from their
// "default" tag values.
func setDefaults(req interface{}) error {
	v := reflect.ValueOf(req)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("setDefaults: req is not a pointer to struct")
	}
	v = v.Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)
		if !fieldVal.CanSet() || !fieldVal.IsZero() {
			continue
		}
		def := parseDiscordTag(field.Tag.Get("discord")).def
		if def == "" {
			continue
		}
		converted, err := convertType(def, field.Type)
		if err != nil {
			return fmt.Errorf("bad default for %s: %w", field.Name, err)
		}
		fieldVal.Set(converted)
	}

	return nil
}

// convertType converts a string value to a reflect.Value of type t for basic types.
func convertType(val string, t reflect.Type) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(val).Convert(t), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(val, 10, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(i).Convert(t), nil
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(val, t.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(f).Convert(t), nil
	case reflect.Bool:
		b, err := strconv.ParseBool(val)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(b).Convert(t), nil
	default:
		return reflect.Value{}, fmt.Errorf("unsupported type for default conversion: %s", t.Kind())
	}
}

// structToCommandOptions builds one command option per field of the request
// struct. Names are the lowercased field names.
func structToCommandOptions(req Request) ([]*discordgo.ApplicationCommandOption, error) {
	t := reflect.TypeOf(req)
	if t == nil {
		return nil, fmt.Errorf("request is nil")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("request is not a struct")
	}

	options := make([]*discordgo.ApplicationCommandOption, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := strings.ToLower(field.Name)
		tag := parseDiscordTag(field.Tag.Get("discord"))

		description := tag.description
		if description == "" {
			description = "Auto-generated option for " + name
		}
		choices := parseChoices(tag.choices)

		options = append(options, &discordgo.ApplicationCommandOption{
			Type:         optionType(field.Type.Kind()),
			Name:         name,
			Description:  description,
			Required:     !tag.optional,
			Choices:      choices,
			Autocomplete: tag.autocomplete && len(choices) == 0,
		})
	}

	return options, nil
}
