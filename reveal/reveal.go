// Package reveal renders the client script that animates sections of a page
// as they scroll into view.
//
// Once the page has been scrolled far enough that a section's top is within
// 1/Factor of a viewport of the viewport's top, every direct child of the
// section gets the reveal class. Sections are checked on every (throttled)
// scroll; adding the class again to an already revealed section changes
// nothing.
package reveal

// Factor divides the viewport height to get how far ahead of a section a
// scroll reveals it
const Factor = 1.3
