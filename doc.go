/*
Package cbor implements the Concise Binary Object Representation
binary interchange format described in RFC 8949.

It follows the standard Go Marshal/Unmarshal interface, and
additionally exposes the head codec (initial byte plus argument) for
callers that stream items themselves.
*/
package cbor
