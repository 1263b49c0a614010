package services

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"

	"portfolio-ai/internal/models"
)

// ChunkPortfolio splits the portfolio into semantically labeled text chunks,
// one per record plus a handful of aggregate chunks. It is a pure function
// of the document: the same portfolio always yields the same chunk sequence.
// A nil document (unreadable or unparsable upstream) yields no chunks, which
// downstream treats as "nothing to retrieve" rather than an error.
func ChunkPortfolio(p *models.Portfolio) []models.Chunk {
	if p == nil {
		return nil
	}

	var chunks []models.Chunk
	add := func(typ models.ChunkType, text string) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		chunks = append(chunks, models.Chunk{
			ID:   chunkID(typ, len(chunks), text),
			Type: typ,
			Text: text,
		})
	}

	// Single aggregate chunk for the owner's identity.
	if p.Profile.Name != "" {
		parts := []string{fmt.Sprintf("Profile: %s is a %s based in %s.",
			p.Profile.Name, orUnknown(p.Profile.Title, "professional"), orUnknown(p.Profile.Location, "an undisclosed location"))}
		if p.Profile.Email != "" {
			parts = append(parts, fmt.Sprintf("Contact email: %s.", p.Profile.Email))
		}
		if p.Profile.Summary != "" {
			parts = append(parts, p.Profile.Summary)
		}
		add(models.ChunkProfile, strings.Join(parts, " "))
	}

	// One chunk per skill category.
	for _, cat := range p.Skills {
		if cat.Category == "" && len(cat.Items) == 0 {
			continue
		}
		add(models.ChunkSkill, fmt.Sprintf("Skills in %s: %s.",
			orUnknown(cat.Category, "general"), strings.Join(cat.Items, ", ")))
	}

	// One chunk per project.
	for _, proj := range p.Projects {
		if proj.Title == "" {
			continue
		}
		text := fmt.Sprintf("Project: %s.", proj.Title)
		if proj.Description != "" {
			text += " " + ensureSentence(proj.Description)
		}
		if len(proj.Tech) > 0 {
			text += fmt.Sprintf(" Technologies used: %s.", strings.Join(proj.Tech, ", "))
		}
		add(models.ChunkProject, text)
	}

	// One chunk per experience entry; highlights win over a plain description.
	for _, exp := range p.Experience {
		if exp.Role == "" && exp.Company == "" {
			continue
		}
		text := fmt.Sprintf("Experience: %s at %s", orUnknown(exp.Role, "a role"), orUnknown(exp.Company, "a company"))
		if exp.Period != "" {
			text += fmt.Sprintf(" (%s)", exp.Period)
		}
		text += "."
		if len(exp.Highlights) > 0 {
			text += fmt.Sprintf(" Key achievements: %s.", strings.Join(exp.Highlights, "; "))
		} else if exp.Description != "" {
			text += " " + ensureSentence(exp.Description)
		}
		add(models.ChunkExperience, text)
	}

	// One chunk per education entry.
	for _, edu := range p.Education {
		if edu.Degree == "" && edu.Institution == "" {
			continue
		}
		text := fmt.Sprintf("Education: %s from %s", orUnknown(edu.Degree, "a degree"), orUnknown(edu.Institution, "an institution"))
		if edu.Year != "" {
			text += fmt.Sprintf(" (%s)", edu.Year)
		}
		add(models.ChunkEducation, text+".")
	}

	// One chunk per certification plus a summary chunk listing all of them.
	var certNames []string
	for _, cert := range p.Certifications {
		if cert.Name == "" {
			continue
		}
		text := fmt.Sprintf("Certification: %s", cert.Name)
		if cert.Issuer != "" {
			text += fmt.Sprintf(" issued by %s", cert.Issuer)
		}
		if cert.Year != "" {
			text += fmt.Sprintf(" (%s)", cert.Year)
		}
		add(models.ChunkCertification, text+".")
		certNames = append(certNames, cert.Name)
	}
	if len(certNames) > 0 {
		add(models.ChunkCertification, fmt.Sprintf("All credentials held: %s.", strings.Join(certNames, ", ")))
	}

	if len(p.Interests) > 0 {
		add(models.ChunkInterests, fmt.Sprintf("Interests and hobbies: %s.", strings.Join(p.Interests, ", ")))
	}

	if len(p.Socials) > 0 {
		var links []string
		for _, s := range p.Socials {
			if s.Platform == "" {
				continue
			}
			links = append(links, fmt.Sprintf("%s (%s)", s.Platform, s.URL))
		}
		if len(links) > 0 {
			add(models.ChunkSocial, fmt.Sprintf("Social profiles: %s.", strings.Join(links, ", ")))
		}
	}

	return chunks
}

// chunkID derives a stable id from the chunk's content, so a replaced
// document never reuses the ids of chunks that no longer exist.
func chunkID(typ models.ChunkType, index int, text string) string {
	sum := sha1.Sum([]byte(text))
	return fmt.Sprintf("%s-%d-%s", typ, index, hex.EncodeToString(sum[:4]))
}

func orUnknown(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// ensureSentence appends a period so interpolated free text reads as a
// self-contained sentence.
func ensureSentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
		return s
	}
	return s + "."
}
