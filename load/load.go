// Package load imports every component package, registering the components
// with the default registry.
package load

import (
	_ "github.com/mook/pagewire/accordion"
	_ "github.com/mook/pagewire/gallery"
	_ "github.com/mook/pagewire/googlemap"
	_ "github.com/mook/pagewire/overlay"
	_ "github.com/mook/pagewire/videoplaceholder"
)
