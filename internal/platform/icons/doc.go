// Package icons defines the icon names site configuration may reference and
// the SVG sprite the page renders them from.
//
// Templates reference a symbol with <use href="#icon-NAME"> so each icon's
// path data is sent once per page.
package icons
