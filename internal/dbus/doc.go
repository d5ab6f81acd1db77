// Package dbus implements the org.freedesktop.Notifications D-Bus
// interface and the notiq control interface. It provides a server that
// receives notifications from applications per the freedesktop.org
// notification specification and forwards them to the queue engine, plus
// the control surface notiqctl talks to.
package dbus
