// Command radiotools plans radio astronomy observations: source
// visibility windows, best observation slots, and interferometer
// array layout tools.
package main

func main() {
	Execute()
}
