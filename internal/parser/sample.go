package parser

// SampleLog is used by the CLI when the requested log file does not exist.
const SampleLog = `2024-12-07 10:15:23 INFO Application started
2024-12-07 10:15:30 ERROR Database connection failed: Connection timeout
2024-12-07 10:15:31 ERROR Exception in thread "main" java.sql.SQLException: Connection refused
    at DatabaseConnector.connect(DatabaseConnector.java:45)
    at Application.init(Application.java:12)
2024-12-07 10:16:00 WARNING Memory usage high: 85%
2024-12-07 10:16:15 ERROR NullPointerException at UserService.getUser()
    at UserService.getUser(UserService.java:78)
2024-12-07 10:17:00 CRITICAL Disk space low: 95% used`
