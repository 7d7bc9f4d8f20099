package slugify_test

import (
	"testing"

	"github.com/priyamehta/aarohi/pkg/slugify"
	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Red Shoes", "red-shoes"},
		{"already slug", "red-shoes", "red-shoes"},
		{"punctuation collapsed", "Men's  T-Shirt (XL)", "men-s-t-shirt-xl"},
		{"leading and trailing junk", "  --Hello World!--  ", "hello-world"},
		{"digits kept", "iPhone 15 Pro", "iphone-15-pro"},
		{"only junk", "!!! ???", ""},
		{"empty", "", ""},
		{"unicode stripped", "Café au lait", "caf-au-lait"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, slugify.Make(tc.in))
		})
	}
}
