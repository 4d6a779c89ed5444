package content

var (
	Headline = `Welcome to Prateek's Universe`

	Tagline = `Exploring the infinite possibilities of code and creativity`

	Intro = `Crafting digital experiences with modern web technologies, passionate about
	creating innovative solutions in the full stack development ecosystem`

	Specialties = []string{"React", "Node.js", "MongoDB", "Express", "JavaScript"}

	Skills = []string{
		"React", "Node.js", "Express.js", "MongoDB",
		"JavaScript", "Tailwind CSS", "Git & GitHub", "Python", "C++",
	}

	FooterNote = `Made with ❤️ and lots of ☕`

	FooterTagline = `Crafted in the cosmic void of creativity`

	SuccessBanner = `✨ Message sent successfully! I'll get back to you soon.`

	FallbackGlyph = `🚀`
)
