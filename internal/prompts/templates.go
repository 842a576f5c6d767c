package prompts

// builtin is the shipped template set. Identifiers are part of the public
// API; instruction wording may be replaced through overrides.
var builtin = []Template{
	// TIER1
	{Type: "LANDING_PAGE_SHORT", Tier: Tier1, Instruction: `Write a short, high-converting landing page (300-500 words).
Include:
- Headline (max 10 words) and subheadline (max 25 words)
- Three benefit bullets tied to the audience's pain points
- One short social-proof line
- A primary call to action and a secondary call to action
Use short paragraphs and scannable formatting.`},
	{Type: "LANDING_PAGE_LONG", Tier: Tier1, Instruction: `Write a long-form landing page (1200-1800 words).
Sections, in order:
1. Hero: headline, subheadline, primary CTA
2. The problem: the audience's pain points in their own words
3. The solution: how the offer solves them
4. Benefits (5-7 bullets) and key features
5. How it works (3-4 steps)
6. Social proof and testimonials
7. Pricing or offer summary
8. Guarantee / risk reversal
9. FAQ (5 questions)
10. Final CTA with urgency`},
	{Type: "HERO_SECTION", Tier: Tier1, Instruction: `Write 3 alternative hero sections for the homepage.
For each variation provide:
- Headline (6-12 words)
- Subheadline (15-30 words)
- CTA button text (2-5 words)
- One supporting line of social proof or trust signal
Label the angle of each variation (benefit-led, problem-led, curiosity-led).`},
	{Type: "ABOUT_US", Tier: Tier1, Instruction: `Write an About Us page (400-700 words).
Include:
- Origin story and why the business exists
- Mission and values (3-5 values with one sentence each)
- What makes the business different
- Who it serves
- A closing paragraph with a call to action
Keep the tone consistent with the brand tone.`},
	{Type: "FAQ", Tier: Tier1, Instruction: `Write a FAQ section with 10-12 questions and answers.
Cover pricing, process, timelines, guarantees, who the offer is for, and common objections.
Each answer is 40-80 words, direct and reassuring.
Format each item as "Q:" followed by "A:".`},
	{Type: "PRODUCT_DESCRIPTION", Tier: Tier1, Instruction: `Write product descriptions for the main products (150-250 words each).
For each product include:
- A benefit-driven title
- An opening hook
- Key features turned into benefits (bullets)
- Who it is for
- A closing call to action
If no products are known, describe the core offer as a product.`},
	{Type: "SERVICE_DESCRIPTION", Tier: Tier1, Instruction: `Write service descriptions for each main service (150-250 words each).
For each service include:
- Service name and one-line promise
- The problem it solves
- What is included (bullets)
- The process or deliverables
- Ideal client and a call to action`},
	{Type: "EMAIL_WELCOME", Tier: Tier1, Instruction: `Write a welcome email for new subscribers or customers (200-350 words).
Include:
- 3 subject line options and a preview text
- A warm greeting and thank-you
- What to expect next
- One quick win or useful resource
- A single clear call to action and a sign-off`},
	{Type: "EMAIL_SEQUENCE", Tier: Tier1, Instruction: `Write a 5-email nurture sequence.
For each email provide: send day, subject line, preview text, body (150-300 words) and CTA.
Sequence arc:
1. Welcome and value promise
2. The core problem and its cost
3. The solution and how it works
4. Proof: results, testimonials, case example
5. Offer with urgency and risk reversal`},
	{Type: "SOCIAL_POSTS", Tier: Tier1, Instruction: `Write 10 social media posts.
Mix: 3 educational, 2 behind-the-scenes, 2 social proof, 2 promotional, 1 engagement question.
For each post give the platform (Facebook, Instagram, LinkedIn or X), the post text (40-150 words), 3-5 hashtags and a suggested visual.`},
	{Type: "AD_COPY_FACEBOOK", Tier: Tier1, Instruction: `Write 5 Facebook/Instagram ad variations.
For each provide:
- Primary text (50-125 words)
- Headline (max 40 characters)
- Description (max 30 characters)
- CTA button
- Targeting notes (interests, demographics)
Use different angles: pain point, benefit, social proof, offer, curiosity.`},
	{Type: "AD_COPY_GOOGLE", Tier: Tier1, Instruction: `Write Google Search ads for 3 ad groups.
For each ad group provide:
- Target keywords (5-8)
- 5 headlines (max 30 characters each)
- 3 descriptions (max 90 characters each)
- Sitelink suggestions (4)
Respect the character limits strictly.`},
	{Type: "CTA_VARIATIONS", Tier: Tier1, Instruction: `Write 20 call-to-action variations.
Group them into: button text (2-5 words), inline CTAs (one sentence), urgency CTAs, low-commitment CTAs and email CTAs.
Note where each group fits best.`},
	{Type: "TAGLINES", Tier: Tier1, Instruction: `Write 15 tagline options (3-8 words each).
Group them by style: benefit-focused, emotional, bold/provocative, descriptive, playful.
Mark the top 3 recommendations with a one-sentence rationale each.`},
	{Type: "TESTIMONIAL_REQUEST", Tier: Tier1, Instruction: `Write a testimonial request kit.
Include:
- Email requesting a testimonial (150-250 words) with 2 subject lines
- A follow-up reminder (80-120 words)
- 5 guiding questions for the customer
- A short SMS/DM version (max 300 characters)
- A thank-you message after receiving the testimonial`},

	// TIER2
	{Type: "PROPOSAL", Tier: Tier2, Instruction: `Write a client proposal template (1000-1500 words).
Sections:
1. Executive summary
2. Understanding of the client's situation and goals
3. Proposed solution and approach
4. Scope and deliverables
5. Timeline and milestones
6. Investment (pricing options)
7. Why us (differentiators, guarantees, proof)
8. Next steps and acceptance
Use placeholders like [Client Name] where client details are needed.`},
	{Type: "SALES_PAGE", Tier: Tier2, Instruction: `Write a long-form sales page (2000-3000 words).
Sections: attention-grabbing headline, story-driven lead, problem agitation, solution reveal, detailed benefits, feature breakdown, testimonials, offer stack with value, bonuses, pricing, guarantee, FAQ (6-8 questions), final call to action, and a P.S.`},
	{Type: "CASE_STUDY", Tier: Tier2, Instruction: `Write a case study (800-1200 words).
Structure:
- Title with the headline result
- Client background
- The challenge
- The solution and implementation
- Results with specific metrics (use clearly marked placeholders if unknown)
- Client quote
- Key takeaways and call to action`},
	{Type: "BLOG_POST", Tier: Tier2, Instruction: `Write an SEO-optimized blog post (1200-1800 words) on a topic relevant to the target audience.
Include:
- SEO title (max 60 characters) and meta description (max 155 characters)
- Introduction with a hook
- 4-6 H2 sections with practical advice
- Naturally placed SEO keywords
- Conclusion with a call to action`},
	{Type: "BLOG_OUTLINE", Tier: Tier2, Instruction: `Create 5 blog post outlines.
For each outline provide: working title, target keyword, search intent, H2/H3 structure (6-10 headings), key points per section, and an internal CTA.`},
	{Type: "NEWSLETTER", Tier: Tier2, Instruction: `Write a newsletter issue (600-900 words).
Include:
- 3 subject line options and preview text
- Opening note
- Main story or tip
- 2-3 quick updates or resources
- Featured offer
- Sign-off with a call to action`},
	{Type: "PRESS_RELEASE", Tier: Tier2, Instruction: `Write a press release (400-600 words) in standard format.
Include: headline, subheadline, dateline, lead paragraph (who, what, when, where, why), supporting paragraphs, a quote from the founder, a second quote from a customer or partner, boilerplate "About" section and media contact placeholders.`},
	{Type: "VIDEO_SCRIPT", Tier: Tier2, Instruction: `Write a 60-90 second promotional video script.
Format as a table-like sequence of scenes, each with: timing, visuals, on-screen text and voiceover.
Structure: hook (first 5 seconds), problem, solution, proof, call to action.
Also provide a 15-second cut-down version.`},
	{Type: "WEBINAR_OUTLINE", Tier: Tier2, Instruction: `Create a 45-60 minute webinar outline.
Include: title and promise, registration page blurb (100 words), agenda with timings, 3 core teaching points with examples, story moments, transition to the offer, offer presentation, Q&A prompts and a follow-up email summary.`},
	{Type: "LEAD_MAGNET", Tier: Tier2, Instruction: `Create a lead magnet (checklist, guide or cheat sheet) of 800-1200 words.
Include: compelling title, short introduction, the main content (actionable steps or checklist items), a bonus tip, and a call to action leading to the main offer.
Also provide the opt-in page headline and 3 bullet points.`},
	{Type: "BROCHURE", Tier: Tier2, Instruction: `Write copy for a tri-fold brochure (500-800 words).
Panels:
1. Cover: headline, tagline
2. Inside left: the problem and who we help
3. Inside middle: services/products with benefits
4. Inside right: why choose us, testimonials
5. Back: contact information, guarantee, call to action`},
	{Type: "ELEVATOR_PITCH", Tier: Tier2, Instruction: `Write elevator pitches in three lengths:
- 10-second version (one sentence)
- 30-second version (60-80 words)
- 60-second version (130-160 words)
Each must state who we help, the problem, the solution, and the differentiator.
Add 3 conversation-opening questions.`},

	// TIER3
	{Type: "BUSINESS_PLAN", Tier: Tier3, Instruction: `Write a business plan (2500-3500 words).
Sections:
1. Executive summary
2. Company description
3. Market analysis (size, trends, target segments)
4. Competitive analysis
5. Products and services
6. Marketing and sales strategy
7. Operations plan
8. Management and team (placeholders)
9. Financial projections (assumptions, 3-year outline)
10. Risks and mitigation
11. Milestones`},
	{Type: "SEO_AUDIT", Tier: Tier3, Instruction: `Write an SEO audit report (1500-2500 words).
Sections:
- Summary score and top 5 priorities
- On-page SEO: titles, meta descriptions, headings, content depth
- Keyword opportunities (15-20 keywords with intent)
- Technical issues (use detected SEO issues when available)
- Local SEO (if service areas are known)
- Content gaps
- 90-day action plan with priorities (high/medium/low)`},
	{Type: "SWOT", Tier: Tier3, Instruction: `Write a SWOT analysis.
For each quadrant (Strengths, Weaknesses, Opportunities, Threats) list 5-7 specific points with one-sentence explanations.
Finish with strategic recommendations: SO, WO, ST and WT strategies (2 each).`},
	{Type: "COMPETITOR_ANALYSIS", Tier: Tier3, Instruction: `Write a competitor analysis (1500-2000 words).
Include:
- 3-5 likely competitors (use known competitors first)
- For each: positioning, offer, pricing signals, strengths, weaknesses
- Comparison table of key attributes
- Market gaps and differentiation opportunities
- Recommended positioning statement`},
	{Type: "MARKETING_PLAN", Tier: Tier3, Instruction: `Write a 90-day marketing plan (2000-3000 words).
Include:
- Goals and KPIs
- Target audience and personas summary
- Positioning and key messages
- Channel strategy (organic, paid, email, partnerships)
- Month-by-month action plan
- Budget allocation (percentages)
- Measurement and reporting cadence`},
	{Type: "CONTENT_CALENDAR", Tier: Tier3, Instruction: `Create a 30-day content calendar.
For each day provide: date (Day 1-30), channel, content type, topic/title, goal (awareness, engagement, conversion) and CTA.
Include weekly themes and at least 4 promotional posts.`},
	{Type: "BRAND_GUIDELINES", Tier: Tier3, Instruction: `Write brand guidelines (1200-1800 words).
Sections:
- Brand story, mission, vision, values
- Brand personality and voice (do/don't examples)
- Messaging pillars and tagline
- Color palette usage (use known brand colors)
- Typography and imagery recommendations
- Writing style rules and vocabulary list`},
	{Type: "BUYER_PERSONA", Tier: Tier3, Instruction: `Create 3 detailed buyer personas.
For each persona include: name and photo description, demographics, job/role, goals, pain points, objections, buying triggers, preferred channels, a quote in their voice, and how to market to them.`},
	{Type: "PRICING_STRATEGY", Tier: Tier3, Instruction: `Write a pricing strategy (1000-1500 words).
Include:
- Current pricing assessment
- Value metrics and willingness-to-pay drivers
- Recommended tiered packages (3 tiers) with inclusions
- Anchoring, bundling and upsell opportunities
- Discount and guarantee policy
- Pricing page copy outline`},
	{Type: "CUSTOMER_JOURNEY", Tier: Tier3, Instruction: `Map the customer journey.
For each stage (Awareness, Consideration, Decision, Onboarding, Retention, Advocacy) describe: customer goals, questions, touchpoints, emotions, content needed, and KPIs.
Finish with the top 5 friction points and fixes.`},
	{Type: "WEBSITE_AUDIT", Tier: Tier3, Instruction: `Write a website conversion audit (1500-2000 words).
Cover: first impression and clarity, messaging and value proposition, layout and navigation (use the layout description), calls to action, trust signals, mobile experience, page speed signals, and identified mistakes.
End with a prioritized fix list (quick wins first) and opportunity estimates.`},
	{Type: "KEYWORD_STRATEGY", Tier: Tier3, Instruction: `Create a keyword strategy.
Include:
- 30-40 keywords grouped into clusters
- For each keyword: search intent, estimated difficulty (low/medium/high) and suggested page
- Pillar pages and supporting content plan
- Local keywords if service areas are known
- Quick-win keywords to target first`},

	// TIER4
	{Type: "PITCH_DECK_OUTLINE", Tier: Tier4, Instruction: `Create a 12-15 slide investor pitch deck outline.
For each slide give the title, key message, bullet content and a visual suggestion.
Slides: problem, solution, market size, product, business model, traction, go-to-market, competition, team, financials, the ask, vision.`},
	{Type: "GO_TO_MARKET", Tier: Tier4, Instruction: `Write a go-to-market strategy (2500-3500 words).
Sections:
1. Market definition and ideal customer profile
2. Value proposition and positioning
3. Pricing and packaging
4. Channels and distribution
5. Launch plan (pre-launch, launch, post-launch) with timeline
6. Sales process and enablement
7. Partnerships
8. Metrics, targets and feedback loops
9. Risks and contingencies`},
}
