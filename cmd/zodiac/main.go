// Command zodiac turns a business website into a profile and a set of
// generated marketing documents.
package main

func main() {
	Execute()
}
