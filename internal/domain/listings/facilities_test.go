package listings

import (
	"reflect"
	"testing"
)

func TestIconsFor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		tags []string
		want []string
	}{
		{
			name: "capped at three in input order",
			tags: []string{"Wifi", "Parking", "Pool", "Gym"},
			want: []string{"fa-solid fa-wifi", "fa-solid fa-square-parking", "fa-solid fa-person-swimming"},
		},
		{
			name: "skips unknown tags before counting",
			tags: []string{"AC", "Free Wifi", "Laundry", "Gym room", "Kitchen", "Pool"},
			want: []string{"fa-solid fa-wifi", "fa-solid fa-dumbbell", "fa-solid fa-person-swimming"},
		},
		{
			name: "case sensitive",
			tags: []string{"wifi", "PARKING"},
			want: []string{},
		},
		{
			name: "first matching rule per tag",
			tags: []string{"Pool and Wifi"},
			want: []string{"fa-solid fa-wifi"},
		},
		{
			name: "empty",
			tags: nil,
			want: []string{},
		},
	}
	for _, tc := range cases {
		if got := IconsFor(tc.tags); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: icons=%v want=%v", tc.name, got, tc.want)
		}
	}
}
