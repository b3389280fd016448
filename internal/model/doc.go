// Package model defines the types shared by the navigation packages.
//
// This package contains:
//   - The error taxonomy: ConfigurationError, ParamError, PageInstantiationError
//   - Page capabilities: the optional interfaces a page may implement
//   - NavigationEvent and NavigationRecord, describing placed pages
//   - Entity, the record returned by the entity lookup capability
//   - ExceptionPage and DynamicPage, the two pages provided out of the box
//   - RouteTable and Resolution, consumed by the report writers
//
// Keeping these types here avoids import cycles between the registry,
// the binder, the interceptor pipeline and the navigator.
package model
