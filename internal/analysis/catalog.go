package analysis

import (
	"strings"

	"github.com/threatflux/secureReviewGo/internal/models"
)

var explanations = map[string]string{
	TypeSQLInjection:            "This code constructs SQL queries using string concatenation with user input, allowing attackers to inject malicious SQL commands. An attacker could extract sensitive data, modify records, or even drop entire tables.",
	TypeXSS:                     "User-controlled data is rendered directly into HTML without sanitization. Attackers can inject malicious scripts that execute in victim browsers, stealing cookies, session tokens, or performing actions on behalf of users.",
	TypeHardcodedSecret:         "Credentials are stored directly in source code, making them accessible to anyone with code access. If this code is committed to version control or deployed, the secrets are permanently exposed.",
	TypeInsecureDeserialization: "Untrusted data is deserialized without validation, allowing attackers to execute arbitrary code by crafting malicious serialized objects.",
	TypeWeakCrypto:              "Deprecated cryptographic algorithms like MD5 or SHA1 are vulnerable to collision attacks. Modern systems should use SHA-256 or stronger algorithms.",
	TypePathTraversal:           "File paths are constructed using unsanitized user input, allowing attackers to access files outside the intended directory using sequences like ../ to traverse the filesystem.",
	TypeCommandInjection:        "User input is passed to system commands without sanitization, allowing attackers to execute arbitrary shell commands on the server.",
	TypeMissingAuth:             "This endpoint lacks authentication, allowing unauthorized access to sensitive functionality or data.",
}

var recommendations = map[string]string{
	TypeSQLInjection:            `Use parameterized queries or ORM frameworks. Example: cursor.execute("SELECT * FROM users WHERE id = ?", (user_id,))`,
	TypeXSS:                     "Always sanitize user input before rendering. Use frameworks that auto-escape by default, or use libraries like DOMPurify for client-side sanitization.",
	TypeHardcodedSecret:         "Store credentials in environment variables or secure secret management systems like AWS Secrets Manager, HashiCorp Vault, or Azure Key Vault.",
	TypeInsecureDeserialization: "Avoid deserializing untrusted data. If necessary, use safe formats like JSON and validate all input rigorously.",
	TypeWeakCrypto:              "Replace with secure algorithms: SHA-256 or SHA-3 for hashing, AES-256 for encryption, and use cryptographically secure random number generators.",
	TypePathTraversal:           "Validate and sanitize all file paths. Use allowlists for permitted directories and reject paths containing ../ or absolute paths.",
	TypeCommandInjection:        "Never pass user input directly to shell commands. Use safe APIs that don't invoke a shell, or strictly validate input against allowlists.",
	TypeMissingAuth:             "Implement authentication middleware. Use JWT tokens, OAuth2, or session-based auth. Always verify user identity before processing requests.",
}

const (
	defaultExplanation    = "Security vulnerability detected that requires immediate attention."
	defaultRecommendation = "Follow security best practices for this vulnerability type."
)

// Confidence values attached to explained findings
const (
	demoCriticalConfidence = 0.92
	demoConfidence         = 0.85
	standardConfidence     = 0.88
)

// Explanation is the narrative attached to a finding
type Explanation struct {
	Text           string
	Confidence     float64
	Recommendation string
}

// Explain returns the canned explanation for f. Demo scans report the
// fixed demo confidences; other profiles report standardConfidence.
func Explain(f Finding, profile models.ScanProfile) Explanation {
	e := Explanation{
		Text:           defaultExplanation,
		Confidence:     standardConfidence,
		Recommendation: defaultRecommendation,
	}
	if text, ok := explanations[f.Type]; ok {
		e.Text = text
	}
	if rec, ok := recommendations[f.Type]; ok {
		e.Recommendation = rec
	}
	if profile == models.ProfileDemo {
		e.Confidence = demoConfidence
		if f.Severity == models.SeverityCritical {
			e.Confidence = demoCriticalConfidence
		}
	}
	return e
}

type fixTemplate struct {
	original    string
	fixed       string
	explanation string
	prevents    []string
}

var fixes = map[string]fixTemplate{
	TypeSQLInjection: {
		original:    `cursor.execute("SELECT * FROM users WHERE id = " + user_id)`,
		fixed:       `cursor.execute("SELECT * FROM users WHERE id = ?", (user_id,))`,
		explanation: "Replaced string concatenation with parameterized query. The database driver handles escaping, preventing SQL injection.",
		prevents:    []string{"SQL Injection", "Data Exfiltration", "Authentication Bypass"},
	},
	TypeXSS: {
		original:    "element.innerHTML = userInput;",
		fixed:       "element.textContent = userInput;\n// Or use DOMPurify: element.innerHTML = DOMPurify.sanitize(userInput);",
		explanation: "Use textContent for plain text or DOMPurify for HTML. This prevents script execution from user input.",
		prevents:    []string{"Cross-Site Scripting", "Session Hijacking", "Cookie Theft"},
	},
	TypeHardcodedSecret: {
		original:    `API_KEY = "sk-1234567890abcdef"`,
		fixed:       "import os\nAPI_KEY = os.environ.get('API_KEY')\nif not API_KEY:\n    raise ValueError('API_KEY not set')",
		explanation: "Load credentials from environment variables. Never commit secrets to version control.",
		prevents:    []string{"Credential Exposure", "Unauthorized API Access", "Account Takeover"},
	},
}

// TypeOf recovers the vulnerability type from an id of the form TYPE_suffix.
// The longest known type prefix wins; unknown ids yield "".
func TypeOf(vulnID string) string {
	best := ""
	for _, rule := range DefaultRules {
		if strings.HasPrefix(vulnID, rule.Type+"_") && len(rule.Type) > len(best) {
			best = rule.Type
		}
	}
	return best
}

// FixFor returns the secure fix for vulnID. Types without a template get
// the SQL injection remediation.
func FixFor(vulnID string) *models.SecureFix {
	tmpl, ok := fixes[TypeOf(vulnID)]
	if !ok {
		tmpl = fixes[TypeSQLInjection]
	}
	return &models.SecureFix{
		VulnerabilityID: vulnID,
		OriginalCode:    tmpl.original,
		FixedCode:       tmpl.fixed,
		Explanation:     tmpl.explanation,
		PreventsAttacks: append([]string(nil), tmpl.prevents...),
	}
}

// Lessons returns the education catalog
func Lessons() []models.Lesson {
	return []models.Lesson{
		{ID: "1", Title: "SQL Injection Prevention", Description: "Learn how to prevent SQL injection attacks using parameterized queries", Difficulty: "Beginner", Duration: "15 min"},
		{ID: "2", Title: "XSS Attack Mitigation", Description: "Understand and prevent Cross-Site Scripting vulnerabilities", Difficulty: "Intermediate", Duration: "20 min"},
		{ID: "3", Title: "Secure Authentication Patterns", Description: "Implement secure authentication and session management", Difficulty: "Intermediate", Duration: "25 min"},
		{ID: "4", Title: "Cryptographic Best Practices", Description: "Use modern encryption and hashing algorithms correctly", Difficulty: "Advanced", Duration: "30 min"},
		{ID: "5", Title: "OWASP Top 10 Deep Dive", Description: "Comprehensive coverage of the most critical security risks", Difficulty: "Advanced", Duration: "45 min"},
	}
}

const pythonSample = `# Vulnerable Python API Code
import sqlite3
from flask import Flask, request

app = Flask(__name__)

# VULNERABILITY: SQL Injection
@app.route('/user')
def get_user():
    user_id = request.args.get('id')
    conn = sqlite3.connect('database.db')
    cursor = conn.cursor()
    # Dangerous: String concatenation with user input
    query = "SELECT * FROM users WHERE id = " + user_id
    cursor.execute(query)
    return cursor.fetchone()

# VULNERABILITY: Hardcoded credentials
DATABASE_PASSWORD = "admin123"
API_KEY = "sk-1234567890abcdef"

# VULNERABILITY: Command Injection
@app.route('/ping')
def ping_server():
    host = request.args.get('host')
    result = os.system('ping -c 1 ' + host)
    return result

# VULNERABILITY: Weak Crypto
import hashlib
def hash_password(password):
    return hashlib.md5(password.encode()).hexdigest()
`

const javascriptSample = `// Vulnerable JavaScript Code
const express = require('express');
const app = express();

// VULNERABILITY: XSS
app.get('/profile', (req, res) => {
    const username = req.query.name;
    // Dangerous: Unescaped user input in HTML
    res.send('<h1>Welcome ' + username + '</h1>');
});

// VULNERABILITY: Hardcoded API Key
const API_SECRET = 'sk-prod-9876543210';

// VULNERABILITY: Insecure Deserialization
app.post('/data', (req, res) => {
    const data = eval(req.body.payload);
    res.json(data);
});

// VULNERABILITY: Missing Authentication
app.get('/admin/users', (req, res) => {
    // No auth check - anyone can access
    const users = db.getAllUsers();
    res.json(users);
});
`

const javaSample = `// Vulnerable Java Code
import java.sql.*;
import javax.servlet.http.*;

public class UserController {
    // VULNERABILITY: SQL Injection
    public User getUser(String userId) throws SQLException {
        Connection conn = DriverManager.getConnection(DB_URL);
        Statement stmt = conn.createStatement();
        // Dangerous: Concatenated SQL query
        String query = "SELECT * FROM users WHERE id = '" + userId + "'";
        ResultSet rs = stmt.executeQuery(query);
        return parseUser(rs);
    }
    
    // VULNERABILITY: Hardcoded credentials
    private static final String DB_PASSWORD = "password123";
    private static final String JWT_SECRET = "supersecret";
}
`

// Samples returns vulnerable demo code keyed by language
func Samples() models.SampleCode {
	return models.SampleCode{
		models.LanguagePython:     pythonSample,
		models.LanguageJavaScript: javascriptSample,
		models.LanguageJava:       javaSample,
	}
}
