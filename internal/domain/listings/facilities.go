package listings

import "strings"

const maxIcons = 3

type iconRule struct {
	needle string
	icon   string
}

// Evaluated in order; the first rule matching a tag wins.
var iconRules = []iconRule{
	{needle: "Wifi", icon: "fa-solid fa-wifi"},
	{needle: "Parking", icon: "fa-solid fa-square-parking"},
	{needle: "Pool", icon: "fa-solid fa-person-swimming"},
	{needle: "Gym", icon: "fa-solid fa-dumbbell"},
}

// IconsFor maps facility tags to at most three icon identifiers, keeping
// the order of the tags. Tags without a matching rule are skipped.
func IconsFor(facilities []string) []string {
	icons := make([]string, 0, maxIcons)
	for _, facility := range facilities {
		for _, rule := range iconRules {
			if strings.Contains(facility, rule.needle) {
				icons = append(icons, rule.icon)
				break
			}
		}
		if len(icons) == maxIcons {
			break
		}
	}
	return icons
}
