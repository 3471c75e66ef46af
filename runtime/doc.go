// Package runtime holds the types generated client bindings compile against:
// endpoint descriptors, requests, body serializers and deserializers, codecs,
// call handles and the HTTP channel that executes calls. It also provides a
// router that matches incoming requests to endpoint descriptors and doers
// that stub or record traffic for tests of generated clients.
//
// Generated code imports this package as bindruntime.
package runtime
