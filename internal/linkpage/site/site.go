// Package site describes what the page links to and which languages it
// offers.
package site

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/digitalexpert/linkpage/internal/platform/icons"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// ActionOpenChat makes a link open the chat instead of navigating.
const ActionOpenChat = "openChat"

// Profile is the person the page is about.
type Profile struct {
	Name      string `yaml:"name"`
	AvatarURL string `yaml:"avatar_url"`
	AvatarAlt string `yaml:"avatar_alt"`
}

// Link is one button of the main link list. TextKey names the translation
// used as its label.
type Link struct {
	ID      string `yaml:"id"`
	Href    string `yaml:"href"`
	TextKey string `yaml:"text_key"`
	Icon    string `yaml:"icon"`
	Primary bool   `yaml:"primary"`
	Action  string `yaml:"action"`
}

// Target returns where the link points; links without one point at "#".
func (l Link) Target() string {
	if href := strings.TrimSpace(l.Href); href != "" {
		return href
	}
	return "#"
}

// External reports whether following the link leaves the page.
func (l Link) External() bool {
	target := l.Target()
	return strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://")
}

// SocialLink is a small icon link in the footer.
type SocialLink struct {
	ID    string `yaml:"id"`
	Href  string `yaml:"href"`
	Icon  string `yaml:"icon"`
	Label string `yaml:"label"`
}

// Language is one entry of the language switcher.
type Language struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
	Flag string `yaml:"flag"`
}

// Site is the whole page configuration.
type Site struct {
	Profile     Profile      `yaml:"profile"`
	Links       []Link       `yaml:"links"`
	SocialLinks []SocialLink `yaml:"social_links"`
	Languages   []Language   `yaml:"languages"`
}

// Default returns the built-in configuration.
func Default() Site {
	return Site{
		Profile: Profile{
			Name:      "Digital Expert",
			AvatarURL: "https://picsum.photos/seed/digitalexpert/128/128",
			AvatarAlt: "Digital Expert Avatar",
		},
		Links: []Link{
			{ID: "website", Href: "#", TextKey: "buttonWebsite", Icon: icons.Globe},
			{ID: "telegram", Href: "https://t.me/yourusername", TextKey: "buttonTelegram", Icon: icons.Telegram},
			{ID: "youtube", Href: "#", TextKey: "buttonYouTube", Icon: icons.YouTube},
			{ID: "instagram", Href: "#", TextKey: "buttonInstagram", Icon: icons.Instagram},
			{ID: "donate", Href: "https://www.buymeacoffee.com/yourusername", TextKey: "buttonDonate", Icon: icons.Euro, Primary: true},
			{ID: "consultation", TextKey: "buttonConsultation", Icon: icons.Consultation, Action: ActionOpenChat},
		},
		SocialLinks: []SocialLink{
			{ID: "telegram_footer", Href: "https://t.me/yourusername", Icon: icons.Telegram, Label: "Telegram"},
			{ID: "youtube_footer", Href: "#", Icon: icons.YouTube, Label: "YouTube"},
			{ID: "instagram_footer", Href: "#", Icon: icons.Instagram, Label: "Instagram"},
		},
		Languages: []Language{
			{Code: "en", Name: "EN", Flag: "🇬🇧"},
			{Code: "ru", Name: "RU", Flag: "🇷🇺"},
			{Code: "fi", Name: "FI", Flag: "🇫🇮"},
			{Code: "et", Name: "ET", Flag: "🇪🇪"},
		},
	}
}

// LoadFile reads a YAML site file. Sections the file leaves out keep their
// Default values. The result is validated.
func LoadFile(path string) (Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Site{}, fmt.Errorf("read site file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML site configuration over Default and validates it.
func Parse(data []byte) (Site, error) {
	var parsed Site
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return Site{}, fmt.Errorf("decode site file: %w", err)
	}
	site := Default()
	if parsed.Profile != (Profile{}) {
		if parsed.Profile.Name != "" {
			site.Profile.Name = parsed.Profile.Name
		}
		if parsed.Profile.AvatarURL != "" {
			site.Profile.AvatarURL = parsed.Profile.AvatarURL
		}
		if parsed.Profile.AvatarAlt != "" {
			site.Profile.AvatarAlt = parsed.Profile.AvatarAlt
		}
	}
	if parsed.Links != nil {
		site.Links = parsed.Links
	}
	if parsed.SocialLinks != nil {
		site.SocialLinks = parsed.SocialLinks
	}
	if parsed.Languages != nil {
		site.Languages = parsed.Languages
	}
	if err := site.Validate(); err != nil {
		return Site{}, err
	}
	return site, nil
}

// Validate checks the configuration and reports every problem found.
func (s Site) Validate() error {
	var problems []error
	ids := make(map[string]struct{})
	checkID := func(kind, id string) {
		id = strings.TrimSpace(id)
		if id == "" {
			problems = append(problems, fmt.Errorf("%s id is required", kind))
			return
		}
		if _, ok := ids[id]; ok {
			problems = append(problems, fmt.Errorf("duplicate id %q", id))
			return
		}
		ids[id] = struct{}{}
	}

	for _, link := range s.Links {
		checkID("link", link.ID)
		if strings.TrimSpace(link.TextKey) == "" {
			problems = append(problems, fmt.Errorf("link %q: text_key is required", link.ID))
		}
		href := strings.TrimSpace(link.Href)
		action := strings.TrimSpace(link.Action)
		switch {
		case href == "" && action == "":
			problems = append(problems, fmt.Errorf("link %q: href or action is required", link.ID))
		case href != "" && action != "":
			problems = append(problems, fmt.Errorf("link %q: href and action are exclusive", link.ID))
		}
		if action != "" && action != ActionOpenChat {
			problems = append(problems, fmt.Errorf("link %q: unknown action %q", link.ID, action))
		}
		if !icons.Known(link.Icon) {
			problems = append(problems, fmt.Errorf("link %q: unknown icon %q", link.ID, link.Icon))
		}
	}
	for _, social := range s.SocialLinks {
		checkID("social link", social.ID)
		if strings.TrimSpace(social.Href) == "" {
			problems = append(problems, fmt.Errorf("social link %q: href is required", social.ID))
		}
		if strings.TrimSpace(social.Label) == "" {
			problems = append(problems, fmt.Errorf("social link %q: label is required", social.ID))
		}
		if !icons.Known(social.Icon) {
			problems = append(problems, fmt.Errorf("social link %q: unknown icon %q", social.ID, social.Icon))
		}
	}

	if len(s.Languages) == 0 {
		problems = append(problems, errors.New("at least one language is required"))
	}
	codes := make(map[string]struct{})
	for _, lang := range s.Languages {
		tag, err := language.Parse(strings.TrimSpace(lang.Code))
		if err != nil {
			problems = append(problems, fmt.Errorf("language %q: %w", lang.Code, err))
			continue
		}
		code := tag.String()
		if _, ok := codes[code]; ok {
			problems = append(problems, fmt.Errorf("duplicate language %q", code))
			continue
		}
		codes[code] = struct{}{}
	}
	if len(s.Languages) > 0 {
		if _, ok := codes["en"]; !ok {
			problems = append(problems, errors.New("language en is required"))
		}
	}
	return errors.Join(problems...)
}

// LanguageCodes returns the configured language codes in display order.
func (s Site) LanguageCodes() []string {
	codes := make([]string, 0, len(s.Languages))
	for _, lang := range s.Languages {
		codes = append(codes, canonical(lang.Code))
	}
	return codes
}

// HasLanguage reports whether code is one of the configured languages.
func (s Site) HasLanguage(code string) bool {
	code = canonical(code)
	if code == "" {
		return false
	}
	for _, lang := range s.Languages {
		if canonical(lang.Code) == code {
			return true
		}
	}
	return false
}

// Language returns the configured entry for code.
func (s Site) Language(code string) (Language, bool) {
	code = canonical(code)
	for _, lang := range s.Languages {
		if canonical(lang.Code) == code {
			return lang, true
		}
	}
	return Language{}, false
}

// TextKeys returns the translation keys the links use, in link order.
func (s Site) TextKeys() []string {
	seen := make(map[string]struct{}, len(s.Links))
	keys := make([]string, 0, len(s.Links))
	for _, link := range s.Links {
		if _, ok := seen[link.TextKey]; ok {
			continue
		}
		seen[link.TextKey] = struct{}{}
		keys = append(keys, link.TextKey)
	}
	return keys
}

func canonical(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	return tag.String()
}
